package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gofinances/internal/amqp"
	"gofinances/internal/apperrors"
	"gofinances/internal/core"
	"gofinances/internal/log"
)

// TransactionStore is the persistence the services need.
type TransactionStore interface {
	Append(ctx context.Context, record core.Transaction) error
	ReadAll(ctx context.Context) ([]core.Transaction, error)
}

// Publisher announces registered transactions. It is optional.
type Publisher interface {
	PublishTransactionCreated(ctx context.Context, msg *amqp.TransactionCreated) error
}

// RegisterInput is the registration form. Fields are validated in
// declaration order and the first failure is reported.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Amount   string `json:"amount" validate:"required,amount_numeric,amount_positive"`
	Type     string `json:"type" validate:"required,transaction_type"`
	Category string `json:"category" validate:"required,category"`
}

// TransactionService registers new transactions.
type TransactionService struct {
	store     TransactionStore
	taxonomy  *core.Taxonomy
	publisher Publisher
	validate  *validator.Validate
	logger    *log.StructuredLogger
	now       func() time.Time
	newID     func() string
}

func NewTransactionService(store TransactionStore, taxonomy *core.Taxonomy, publisher Publisher) *TransactionService {
	if taxonomy == nil {
		taxonomy = core.DefaultTaxonomy()
	}
	logger := log.New(log.Config{
		Component: log.ComponentTransactions,
		Handler:   slog.Default().Handler(),
	})
	return &TransactionService{
		store:     store,
		taxonomy:  taxonomy,
		publisher: publisher,
		validate:  newValidator(taxonomy),
		logger:    log.NewStructuredLogger(logger),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func newValidator(taxonomy *core.Taxonomy) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("amount_numeric", func(fl validator.FieldLevel) bool {
		_, err := core.ParseAmount(fl.Field().String())
		return err == nil || errors.Is(err, core.ErrNegativeAmount)
	})
	_ = v.RegisterValidation("amount_positive", func(fl validator.FieldLevel) bool {
		d, err := core.ParseAmount(fl.Field().String())
		return err == nil && d.IsPositive()
	})
	_ = v.RegisterValidation("transaction_type", func(fl validator.FieldLevel) bool {
		return core.TransactionType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := taxonomy.Lookup(fl.Field().String())
		return ok
	})
	return v
}

// Register validates in, stamps a fresh id and the current time, and appends
// the record. Nothing is written when validation fails.
func (s *TransactionService) Register(ctx context.Context, in RegisterInput) (core.Transaction, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Amount = strings.TrimSpace(in.Amount)
	in.Type = strings.TrimSpace(in.Type)
	in.Category = strings.TrimSpace(in.Category)

	if err := s.validate.StructCtx(ctx, in); err != nil {
		return core.Transaction{}, translateValidation(err)
	}

	record := core.Transaction{
		ID:       s.newID(),
		Type:     core.TransactionType(in.Type),
		Name:     in.Name,
		Amount:   core.AmountText(in.Amount),
		Category: in.Category,
		Date:     s.now(),
	}
	if err := record.Validate(s.taxonomy); err != nil {
		return core.Transaction{}, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	if err := s.store.Append(ctx, record); err != nil {
		slog.ErrorContext(ctx, "Failed to save transaction",
			log.FieldComponent, log.ComponentTransactions,
			log.FieldOperation, log.OpAppend,
			log.FieldTransactionID, record.ID,
			log.FieldError, err)
		return core.Transaction{}, apperrors.Wrap(apperrors.ErrSaveFailed, err)
	}

	s.logger.LogTransactionCreated(ctx, record.ID, string(record.Type), record.Name, record.Amount.String(), record.Category)

	s.publish(ctx, record)
	return record, nil
}

func (s *TransactionService) publish(ctx context.Context, record core.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionCreated(ctx, amqp.NewTransactionCreated(record)); err != nil {
		// the record is already stored; export can be replayed later
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldComponent, log.ComponentAMQP,
			log.FieldTransactionID, record.ID,
			log.FieldError, err)
	}
}

// translateValidation maps the first validation failure to its user-facing
// message.
func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	fe := verrs[0]
	var appErr *apperrors.AppError
	switch fe.Field() {
	case "Name":
		appErr = apperrors.ErrNameRequired
		if fe.Tag() == "max" {
			appErr = apperrors.WithMessage(apperrors.ErrInvalidInput, "Nome muito longo")
		}
	case "Amount":
		switch fe.Tag() {
		case "required":
			appErr = apperrors.ErrAmountRequired
		case "amount_numeric":
			appErr = apperrors.ErrAmountNotNumeric
		default:
			appErr = apperrors.ErrAmountNegative
		}
	case "Type":
		appErr = apperrors.ErrTypeRequired
	case "Category":
		appErr = apperrors.ErrCategoryRequired
		if fe.Tag() == "category" {
			appErr = apperrors.ErrUnknownCategory
		}
	default:
		appErr = apperrors.ErrInvalidInput
	}
	return apperrors.Wrap(appErr, fmt.Errorf("%s failed on %s", fe.Field(), fe.Tag()))
}
