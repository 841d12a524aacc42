package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/app"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

type fakeManualClaimer struct {
	claim domain.Claim
	err   error
	got   app.CreateManualClaimInput
}

func (f *fakeManualClaimer) CreateManualClaim(ctx context.Context, in app.CreateManualClaimInput) (domain.Claim, error) {
	f.got = in
	if f.err != nil {
		return domain.Claim{}, f.err
	}
	return f.claim, nil
}

func TestHandleManualClaim(t *testing.T) {
	t.Parallel()

	const body = `{"user_id":"user-a","mint_unit_id":"unit-1","claim_type":"correction","reason":"support ticket"}`

	t.Run("creates completed claim", func(t *testing.T) {
		svc := &fakeManualClaimer{claim: domain.Claim{
			ID:         "claim-1",
			UserID:     "user-a",
			MintUnitID: "unit-1",
			Status:     domain.ClaimStatusCompleted,
		}}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/claims/manual", strings.NewReader(body))
		HandleManualClaim(svc)(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
		if svc.got.Reason != "support ticket" {
			t.Fatalf("unexpected input: %+v", svc.got)
		}
	})

	t.Run("reserved unit maps to 409", func(t *testing.T) {
		svc := &fakeManualClaimer{err: domain.ErrUnitUnavailable}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/claims/manual", strings.NewReader(body))
		HandleManualClaim(svc)(rr, req)

		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rr.Code)
		}
	})

	t.Run("unknown unit maps to 404", func(t *testing.T) {
		svc := &fakeManualClaimer{err: domain.ErrUnitNotFound}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/claims/manual", strings.NewReader(body))
		HandleManualClaim(svc)(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})

	t.Run("missing reason maps to 400", func(t *testing.T) {
		svc := &fakeManualClaimer{err: domain.ErrReasonRequired}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/claims/manual", strings.NewReader(`{"user_id":"u","mint_unit_id":"m","claim_type":"c"}`))
		HandleManualClaim(svc)(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})
}
