package calculator

import (
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/mmynk/vesting/internal/models"
)

// RecipientBalance aggregates every stream owned by one recipient.
type RecipientBalance struct {
	Recipient string
	Streams   int
	Total     *big.Int // Sum of TotalAmount
	Vested    *big.Int // Sum of VestedAmount at the observation instant
	Claimed   *big.Int // Sum of ClaimedAmount
	Claimable *big.Int // Sum of ClaimableAmount
}

// Locked returns the amount that has not vested yet.
func (b RecipientBalance) Locked() *big.Int {
	return new(big.Int).Sub(b.Total, b.Vested)
}

// Summary is the portfolio view across a set of streams.
type Summary struct {
	// Recipients is sorted by recipient address.
	Recipients []RecipientBalance

	// Overall sums every recipient.
	Overall RecipientBalance
}

func newBalance(recipient string) *RecipientBalance {
	return &RecipientBalance{
		Recipient: recipient,
		Total:     new(big.Int),
		Vested:    new(big.Int),
		Claimed:   new(big.Int),
		Claimable: new(big.Int),
	}
}

func (b *RecipientBalance) add(s *models.Stream, sched models.Schedule) {
	b.Streams++
	b.Total.Add(b.Total, s.TotalAmount)
	b.Vested.Add(b.Vested, sched.VestedAmount)
	b.Claimed.Add(b.Claimed, s.ClaimedAmount)
	b.Claimable.Add(b.Claimable, sched.ClaimableAmount)
}

// Summarize evaluates every stream at now and aggregates the results per
// recipient.
//
// Algorithm:
// - For each stream: evaluate the schedule at now
// - Add total, vested, claimed and claimable to the recipient's balance
// - Add the same values to the overall balance
func Summarize(streams []*models.Stream, now time.Time) Summary {
	balances := make(map[string]*RecipientBalance)
	overall := newBalance("")

	for _, s := range streams {
		sched := Evaluate(s, now)

		recipient := strings.ToLower(s.Recipient)
		bal, exists := balances[recipient]
		if !exists {
			bal = newBalance(recipient)
			balances[recipient] = bal
		}
		bal.add(s, sched)
		overall.add(s, sched)
	}

	recipients := make([]RecipientBalance, 0, len(balances))
	for _, bal := range balances {
		recipients = append(recipients, *bal)
	}
	sort.Slice(recipients, func(i, j int) bool {
		return recipients[i].Recipient < recipients[j].Recipient
	})

	return Summary{Recipients: recipients, Overall: *overall}
}
