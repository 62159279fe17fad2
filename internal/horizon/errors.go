package horizon

import (
	"net/http"

	"github.com/rotisserie/eris"
	"github.com/stellar/go/clients/horizonclient"

	"zarc/internal/domain"
)

func classifyLoad(address string, err error) error {
	if horizonclient.IsNotFoundError(err) {
		return eris.Wrapf(domain.ErrAccountNotFound, "account %s", address)
	}
	if hErr := horizonclient.GetError(err); hErr != nil && hErr.Problem.Status == http.StatusNotFound {
		return eris.Wrapf(domain.ErrAccountNotFound, "account %s", address)
	}
	return unavailable(err, "load account "+address)
}

func classifySubmit(err error) error {
	hErr := horizonclient.GetError(err)
	if hErr == nil {
		return unavailable(err, "submit transaction")
	}
	if codes, cerr := hErr.ResultCodes(); cerr == nil && codes != nil {
		return &domain.RejectionError{
			TransactionCode: codes.TransactionCode,
			OperationCodes:  codes.OperationCodes,
			Cause:           err,
		}
	}
	switch st := hErr.Problem.Status; {
	case st == http.StatusBadRequest:
		return &domain.RejectionError{TransactionCode: hErr.Problem.Title, Cause: err}
	default:
		// 5xx, 429 and 504 submission timeouts: the transaction may or may
		// not have been included.
		return unavailable(err, "submit transaction")
	}
}

func unavailable(err error, op string) error {
	if hErr := horizonclient.GetError(err); hErr != nil {
		return eris.Wrapf(domain.ErrUnavailable, "%s: horizon %d %s", op, hErr.Problem.Status, hErr.Problem.Title)
	}
	return eris.Wrapf(domain.ErrUnavailable, "%s: %v", op, err)
}
