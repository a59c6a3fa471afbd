package http

import (
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/service"
	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// Domain to wire conversions. Slices are never nil so lists encode as [].

func toPaymentInstructions(p domain.PaymentRequirement) *partysdk.PaymentInstructions {
	return &partysdk.PaymentInstructions{
		Required:    p.Required,
		Amount:      p.Amount,
		Recipient:   p.Recipient,
		Description: p.Description,
	}
}

func toPartyView(v domain.PartyView) partysdk.PartyView {
	return partysdk.PartyView{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		Location:     v.Location,
		DateTime:     v.DateTime,
		MaxAttendees: v.MaxAttendees,
		University:   v.University,
		HostID:       v.HostID,
		HostName:     v.HostName,
		Attendees:    nonNil(v.Attendees),
		Payment:      *toPaymentInstructions(v.Payment),
		IsHost:       v.IsHost,
		IsJoined:     v.IsJoined,
		IsPartyOver:  v.IsPartyOver,
		IsFull:       v.IsFull,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toPartyList(views []domain.PartyView) partysdk.PartyList {
	out := partysdk.PartyList{Parties: make([]partysdk.PartyView, len(views))}
	for i, v := range views {
		out.Parties[i] = toPartyView(v)
	}
	return out
}

func toProfile(u domain.User) partysdk.Profile {
	return partysdk.Profile{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		University:    u.University,
		PaymentHandle: u.PaymentHandle,
		CreatedAt:     u.CreatedAt,
	}
}

func toPaymentRecord(rec domain.PaymentRecord) partysdk.PaymentRecord {
	out := partysdk.PaymentRecord{
		PartyID:     rec.PartyID,
		UserID:      rec.UserID,
		Username:    rec.Username,
		Reference:   rec.Reference,
		IsPaid:      rec.IsPaid,
		Status:      string(rec.Status),
		ConfirmedAt: rec.ConfirmedAt,
		ConfirmedBy: rec.ConfirmedBy,
	}
	if !rec.SubmittedAt.IsZero() {
		submitted := rec.SubmittedAt
		out.SubmittedAt = &submitted
	}
	return out
}

func toPaymentStatus(c service.PaymentCheck) partysdk.PaymentStatus {
	return partysdk.PaymentStatus{
		PaymentRecord: toPaymentRecord(c.PaymentRecord),
		Required:      c.Required,
		Payment:       *toPaymentInstructions(c.Payment),
		Satisfied:     c.Satisfied,
	}
}

func toDriver(d domain.DesignatedDriver) partysdk.Driver {
	return partysdk.Driver{
		PartyID:       d.PartyID,
		UserID:        d.UserID,
		Username:      d.Username,
		Name:          d.Name,
		Phone:         d.Phone,
		Vehicle:       d.Vehicle,
		Seats:         d.Seats,
		DepartureTime: d.DepartureTime,
		Destination:   d.Destination,
		Active:        d.Active,
		CreatedAt:     d.CreatedAt,
	}
}

func toRide(rr domain.RideRequest) partysdk.Ride {
	return partysdk.Ride{
		ID:             rr.ID,
		PartyID:        rr.PartyID,
		DriverID:       rr.DriverID,
		RiderID:        rr.RiderID,
		RiderName:      rr.RiderName,
		PickupLocation: rr.PickupLocation,
		PickupTime:     rr.PickupTime,
		Destination:    rr.Destination,
		Passengers:     rr.Passengers,
		Status:         string(rr.Status),
		CreatedAt:      rr.CreatedAt,
		UpdatedAt:      rr.UpdatedAt,
	}
}

func toDrink(d domain.Drink) partysdk.Drink {
	return partysdk.Drink{
		ID:             d.ID,
		PartyID:        d.PartyID,
		Type:           d.Type,
		AlcoholPct:     d.AlcoholPct,
		Ounces:         d.Ounces,
		StandardDrinks: d.StandardDrinks(),
		ConsumedAt:     d.ConsumedAt,
	}
}

func toPool(p domain.ExpensePool) partysdk.Pool {
	return partysdk.Pool{
		ID:            p.ID,
		PartyID:       p.PartyID,
		Name:          p.Name,
		Description:   p.Description,
		TotalAmount:   p.TotalAmount,
		CreatorID:     p.CreatorID,
		Participants:  nonNil(p.Participants),
		PaymentHandle: p.PaymentHandle,
		IsActive:      p.IsActive,
		IsSettled:     p.IsSettled,
		CreatedAt:     p.CreatedAt,
	}
}

func toExpense(e domain.Expense) partysdk.Expense {
	return partysdk.Expense{
		ID:          e.ID,
		PoolID:      e.PoolID,
		PartyID:     e.PartyID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		SplitWith:   nonNil(e.SplitWith),
		SettledBy:   nonNil(e.SettledBy),
		CreatedAt:   e.CreatedAt,
	}
}

func toExpenseList(in []domain.Expense) partysdk.ExpenseList {
	out := partysdk.ExpenseList{Expenses: make([]partysdk.Expense, len(in))}
	for i, e := range in {
		out.Expenses[i] = toExpense(e)
	}
	return out
}

func toPoolBalances(b domain.PoolBalances) partysdk.PoolBalances {
	out := partysdk.PoolBalances{
		PoolID:    b.PoolID,
		Total:     b.Total,
		FairShare: b.FairShare,
		Balances:  make([]partysdk.Balance, len(b.Balances)),
		Transfers: make([]partysdk.Transfer, len(b.Transfers)),
	}
	for i, bal := range b.Balances {
		out.Balances[i] = partysdk.Balance{
			UserID: bal.UserID,
			Paid:   bal.Paid,
			Net:    bal.Net,
			Owes:   bal.Owes,
			Owed:   bal.Owed,
		}
	}
	for i, t := range b.Transfers {
		out.Transfers[i] = partysdk.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return out
}

func toFeedback(f domain.Feedback) partysdk.Feedback {
	return partysdk.Feedback{
		ID:          f.ID,
		PartyID:     f.PartyID,
		UserID:      f.UserID,
		Rating:      f.Rating,
		Comment:     f.Comment,
		IsAnonymous: f.IsAnonymous,
		CreatedAt:   f.CreatedAt,
	}
}

func toFeedbackList(in []domain.Feedback) partysdk.FeedbackList {
	out := partysdk.FeedbackList{Feedback: make([]partysdk.Feedback, len(in))}
	for i, f := range in {
		out.Feedback[i] = toFeedback(f)
	}
	return out
}

func toPlaylist(p domain.Playlist) partysdk.Playlist {
	return partysdk.Playlist{
		ID:            p.ID,
		PartyID:       p.PartyID,
		Name:          p.Name,
		Description:   p.Description,
		CreatorID:     p.CreatorID,
		VoteRequired:  p.VoteRequired,
		MinVotes:      p.MinVotes,
		CurrentSongID: p.CurrentSongID,
		CreatedAt:     p.CreatedAt,
	}
}

func toSong(s domain.Song) partysdk.Song {
	return partysdk.Song{
		ID:          s.ID,
		PlaylistID:  s.PlaylistID,
		Title:       s.Title,
		Artist:      s.Artist,
		Album:       s.Album,
		DurationSec: s.DurationSec,
		AddedBy:     s.AddedBy,
		Votes:       s.Votes,
		Voters:      nonNil(s.Voters),
		Played:      s.Played,
		AddedAt:     s.AddedAt,
	}
}

func toGame(g domain.Game) partysdk.Game {
	return partysdk.Game{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Rules:       g.Rules,
		Category:    g.Category,
		University:  g.University,
		IsPublic:    g.IsPublic,
		CreatorID:   g.CreatorID,
		Popularity:  g.Popularity,
		CreatedAt:   g.CreatedAt,
	}
}

func toGameList(games []domain.Game) partysdk.GameList {
	out := partysdk.GameList{Games: make([]partysdk.Game, len(games))}
	for i, g := range games {
		out.Games[i] = toGame(g)
	}
	return out
}

func toPartyGame(g domain.PartyGame) partysdk.PartyGame {
	return partysdk.PartyGame{
		ID:          g.ID,
		PartyID:     g.PartyID,
		GameID:      g.GameID,
		Name:        g.Name,
		Description: g.Description,
		Rules:       g.Rules,
		Category:    g.Category,
		AddedBy:     g.AddedBy,
		Players:     nonNil(g.Players),
		AddedAt:     g.AddedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// parseDay reads a YYYY-MM-DD query value as a UTC day.
func parseDay(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
