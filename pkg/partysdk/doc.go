/*
Package partysdk is a Go client for the campus party service.

# SDKClient vs Session

SDKClient covers the public endpoints (registration, login, health and the
JWKS) and creates Sessions. A Session carries a bearer token and covers
everything else:

	client := partysdk.NewSDKClient("http://localhost:8080")

	_, err := client.Register(ctx, partysdk.RegisterRequest{
		Username: "sam",
		Email:    "sam@stanford.edu",
		Password: "hunter22",
	})

	session, err := client.Authenticate(ctx, "sam", "hunter22")

	party, err := session.CreateParty(ctx, partysdk.CreatePartyRequest{
		Title:    "Finals are over",
		Location: "Wilbur Hall",
		DateTime: time.Now().Add(48 * time.Hour),
	})

Tokens are not refreshed. Once one expires, calls fail with invalid_token;
log in again and call SetAccessToken.

# Errors

Every non-2xx response comes back as an *APIError. Use IsCode to branch on
the code:

	view, err := session.JoinParty(ctx, partyID)
	if partysdk.IsCode(err, partysdk.ErrorCodePaymentRequired) {
		var apiErr *partysdk.APIError
		errors.As(err, &apiErr)
		fmt.Printf("pay %.2f to %s\n", apiErr.Payment.Amount, apiErr.Payment.Recipient)
	}

# Session Organization

  - session.go: token handling and the caller's account
  - session_party.go: parties and membership
  - session_payment.go: the payment gate
  - session_safety.go: designated drivers, rides, drinks and BAC
  - session_expense.go: expense pools
  - session_feedback.go: post-party feedback
  - session_playlist.go: collaborative playlists

# Thread Safety

SDKClient and Session are safe for concurrent use.
*/
package partysdk
