package platform

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pawbook/go-admin-client/apiclient"
)

// WithdrawalStatus is the canonical withdrawal state enumeration.
type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "PENDING"
	WithdrawalApproved  WithdrawalStatus = "APPROVED"
	WithdrawalRejected  WithdrawalStatus = "REJECTED"
	WithdrawalCompleted WithdrawalStatus = "COMPLETED"
)

type Withdrawal struct {
	ID                string           `json:"id"`
	Amount            float64          `json:"amount"`
	Fee               float64          `json:"fee"`
	NetAmount         float64          `json:"netAmount"`
	Status            WithdrawalStatus `json:"status"`
	BankName          string           `json:"bankName"`
	AccountNumber     string           `json:"accountNumber"`
	AccountHolderName string           `json:"accountHolderName"`
	CreatedAt         string           `json:"createdAt"`
	ProcessedAt       *string          `json:"processedAt,omitempty"`
	AdminNote         *string          `json:"adminNote,omitempty"`
	RejectionReason   *string          `json:"rejectionReason,omitempty"`
	TransactionRef    *string          `json:"transactionRef,omitempty"`
}

type WithdrawalsService struct {
	api *apiclient.Client
}

func NewWithdrawalsService(api *apiclient.Client) *WithdrawalsService {
	return &WithdrawalsService{api: api}
}

func (s *WithdrawalsService) List(ctx context.Context, params ListParams) (*Page[Withdrawal], error) {
	var resp pagedResponse[Withdrawal]
	if err := s.api.Get(ctx, "/admin/withdrawals", &resp, apiclient.WithQuery(params.Values())); err != nil {
		return nil, errors.Wrap(err, "[WithdrawalsService.List] get")
	}
	page := resp.toPage()
	return &page, nil
}

func (s *WithdrawalsService) Get(ctx context.Context, id string) (*Withdrawal, error) {
	var envelope apiclient.Envelope[Withdrawal]
	if err := s.api.Get(ctx, "/admin/withdrawals/"+id, &envelope); err != nil {
		return nil, errors.Wrap(err, "[WithdrawalsService.Get] get")
	}
	withdrawal, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[WithdrawalsService.Get] unwrap")
	}
	return &withdrawal, nil
}

// Approve approves a pending withdrawal.
func (s *WithdrawalsService) Approve(ctx context.Context, id, adminNote string) (*Withdrawal, error) {
	if adminNote == "" {
		adminNote = "Approved by admin"
	}
	return s.action(ctx, id, "approve", map[string]string{"adminNote": adminNote})
}

// Reject rejects a pending withdrawal with a reason.
func (s *WithdrawalsService) Reject(ctx context.Context, id, rejectionReason string) (*Withdrawal, error) {
	return s.action(ctx, id, "reject", map[string]string{"rejectionReason": rejectionReason})
}

// Complete marks an approved withdrawal as paid out.
func (s *WithdrawalsService) Complete(ctx context.Context, id, transactionNote string) (*Withdrawal, error) {
	if transactionNote == "" {
		transactionNote = "Bank transfer completed"
	}
	return s.action(ctx, id, "complete", map[string]string{"transactionNote": transactionNote})
}

func (s *WithdrawalsService) action(ctx context.Context, id, action string, body map[string]string) (*Withdrawal, error) {
	var envelope apiclient.Envelope[Withdrawal]
	if err := s.api.Post(ctx, "/admin/withdrawals/"+id+"/"+action, body, &envelope); err != nil {
		return nil, errors.Wrapf(err, "[WithdrawalsService.%s] post", action)
	}
	withdrawal, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrapf(err, "[WithdrawalsService.%s] unwrap", action)
	}
	return &withdrawal, nil
}
