package service

import (
	"math"
	"sort"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

// settleEpsilon is the smallest amount worth a transfer.
const settleEpsilon = 0.01

// CalculateBalances splits the pool total evenly between participants and
// works out who owes whom.
//
//   - fair share = total / participants
//   - net = paid - fair share; owes and owed are its negative and positive parts
//   - transfers greedily match the largest debtor with the largest creditor
//
// Payers who are no longer participants still get a balance row so money is
// never lost from the totals.
func CalculateBalances(participants []string, expenses []domain.Expense) domain.PoolBalances {
	participants = dedupe(participants)

	paid := make(map[string]float64, len(participants))
	order := append([]string(nil), participants...)
	for _, u := range participants {
		paid[u] = 0
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
		if _, ok := paid[e.PaidBy]; !ok {
			order = append(order, e.PaidBy)
		}
		paid[e.PaidBy] += e.Amount
	}

	out := domain.PoolBalances{
		Total:     round2(total),
		Balances:  make([]domain.Balance, 0, len(order)),
		Transfers: []domain.Transfer{},
	}
	if len(participants) == 0 {
		return out
	}

	fair := total / float64(len(participants))
	out.FairShare = round2(fair)

	inPool := make(map[string]bool, len(participants))
	for _, u := range participants {
		inPool[u] = true
	}

	type entry struct {
		id     string
		amount float64
	}
	var debtors, creditors []entry

	for _, u := range order {
		share := 0.0
		if inPool[u] {
			share = fair
		}
		net := paid[u] - share
		b := domain.Balance{
			UserID: u,
			Paid:   round2(paid[u]),
			Net:    round2(net),
			Owes:   round2(math.Max(-net, 0)),
			Owed:   round2(math.Max(net, 0)),
		}
		out.Balances = append(out.Balances, b)

		switch {
		case net < -settleEpsilon:
			debtors = append(debtors, entry{u, -net})
		case net > settleEpsilon:
			creditors = append(creditors, entry{u, net})
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(debtors[i].amount, creditors[j].amount)
		if amount > settleEpsilon {
			out.Transfers = append(out.Transfers, domain.Transfer{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: round2(amount),
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount < settleEpsilon {
			i++
		}
		if creditors[j].amount < settleEpsilon {
			j++
		}
	}

	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
