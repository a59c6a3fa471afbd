package party_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

func paidParty(t *testing.T, host *partysdk.Session) *partysdk.PartyView {
	t.Helper()
	party, err := host.CreateParty(t.Context(), partysdk.CreatePartyRequest{
		Title:    "Formal",
		Location: "Toyon Hall",
		DateTime: upcoming(96 * time.Hour),
		Payment: &partysdk.PaymentInstructions{
			Required:    true,
			Amount:      12.5,
			Recipient:   "@riley-venmo",
			Description: "Covers drinks and the DJ",
		},
	})
	require.NoError(t, err)
	return party
}

// TestPaymentGateTrustPolicy accepts self reported payments.
func TestPaymentGateTrustPolicy(t *testing.T) {
	baseURL := setupPartyContainer(t, nil)
	client := partysdk.NewSDKClient(baseURL)
	ctx := t.Context()

	host := signUp(t, client, "riley", "stanford.edu")
	guest := signUp(t, client, "jordan", "stanford.edu")
	party := paidParty(t, host)

	_, err := guest.JoinParty(ctx, party.ID)
	apiErr := requireAPIError(t, err, http.StatusPaymentRequired, partysdk.ErrorCodePaymentRequired)
	require.NotNil(t, apiErr.Payment)
	require.Equal(t, 12.5, apiErr.Payment.Amount)
	require.Equal(t, "@riley-venmo", apiErr.Payment.Recipient)

	_, err = guest.SubmitPayment(ctx, party.ID, "venmo-txn-1")
	require.NoError(t, err)

	joined, err := guest.JoinParty(ctx, party.ID)
	require.NoError(t, err)
	require.True(t, joined.IsJoined)
}

// TestPaymentGateConfirmedPolicy needs the host to confirm first.
func TestPaymentGateConfirmedPolicy(t *testing.T) {
	baseURL := setupPartyContainer(t, map[string]string{"PARTY_PAYMENT_POLICY": "confirmed"})
	client := partysdk.NewSDKClient(baseURL)
	ctx := t.Context()

	host := signUp(t, client, "riley", "stanford.edu")
	guest := signUp(t, client, "jordan", "stanford.edu")
	party := paidParty(t, host)

	rec, err := guest.SubmitPayment(ctx, party.ID, "venmo-txn-2")
	require.NoError(t, err)

	_, err = guest.JoinParty(ctx, party.ID)
	requireAPIError(t, err, http.StatusPaymentRequired, partysdk.ErrorCodePaymentRequired)

	err = guest.ConfirmPayment(ctx, party.ID, rec.UserID)
	requireAPIError(t, err, http.StatusForbidden, partysdk.ErrorCodePermissionDenied)

	require.NoError(t, host.ConfirmPayment(ctx, party.ID, rec.UserID))

	status, err := guest.PaymentStatus(ctx, party.ID)
	require.NoError(t, err)
	require.Equal(t, "confirmed", status.Status)
	require.True(t, status.Satisfied)

	joined, err := guest.JoinParty(ctx, party.ID)
	require.NoError(t, err)
	require.True(t, joined.IsJoined)
}
