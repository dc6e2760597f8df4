package smoketest

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

// Name pools for synthetic signups.
var (
	firstNames = []string{
		"Alex", "Sam", "Jordan", "Casey", "Morgan", "Taylor", "Riley",
		"Jamie", "Drew", "Quinn", "Avery", "Blake", "Cameron", "Devon",
	}
	lastNames = []string{
		"Smith", "Johnson", "Brown", "Davis", "Miller", "Wilson",
		"Moore", "Clark", "Lewis", "Walker", "Hall", "Young",
	}
)

// Confirmation bodies the webhook driver cycles through.
var confirmationBodies = []string{
	"Got a goalie! confirmed",
	"yes, locked him in for this week",
	"goalie is all set, see you friday",
}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// signup is one synthetic roster entry.
type signup struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// generateSignups creates n synthetic signups with unique names and
// valid phone shapes.
func generateSignups(n int) []signup {
	out := make([]signup, n)
	for i := 0; i < n; i++ {
		name := firstNames[randomInt(len(firstNames))] + " " +
			lastNames[randomInt(len(lastNames))] + " " + strconv.Itoa(i)
		phone := "+1555" + strconv.Itoa(1000000+randomInt(8999999))
		out[i] = signup{Name: name, Phone: phone}
	}
	return out
}

// newMessageSid builds a Twilio-shaped message id unique per call.
func newMessageSid() string {
	return "SM" + uuid.NewString()
}

// confirmationBody returns a rotating confirmation message.
func confirmationBody(i int) string {
	return confirmationBodies[i%len(confirmationBodies)]
}
