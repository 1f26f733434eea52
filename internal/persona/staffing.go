// CLAUDE:SUMMARY Seat staffing — affinity scoring, deterministic auto-staff, and random pick for the two adversarial seats
package persona

import (
	"math/rand"
	"sort"
	"strings"
)

// Staffing names the personas chosen for the two adversarial seats.
// The moderator seat is fixed and not part of staffing.
type Staffing struct {
	VisionarySeat Definition `json:"visionary_seat"`
	SkepticSeat   Definition `json:"skeptic_seat"`
}

// ScoreForTopics counts case-insensitive substring overlaps between the
// persona's affinity tags and the user's topics. Purely a ranking
// heuristic; ties are broken by catalog order.
func ScoreForTopics(p Definition, userTopics []string) int {
	score := 0
	for _, tag := range p.TopicAffinityTags {
		lt := strings.ToLower(tag)
		for _, topic := range userTopics {
			lo := strings.ToLower(topic)
			if strings.Contains(lo, lt) || strings.Contains(lt, lo) {
				score++
			}
		}
	}
	return score
}

// AutoStaff ranks all non-moderator personas by affinity score and seats
// the top two. Pure function of the catalog and input: repeated calls
// with the same topics return the same assignment. With no overlap at
// all it still returns two distinct personas (catalog order wins).
func AutoStaff(userTopics []string) Staffing {
	pool := Debaters()
	sort.SliceStable(pool, func(i, j int) bool {
		return ScoreForTopics(pool[i], userTopics) > ScoreForTopics(pool[j], userTopics)
	})
	return Staffing{VisionarySeat: pool[0], SkepticSeat: pool[1]}
}

// Randomize picks two distinct non-moderator personas uniformly at
// random, for the "just pick for me" path.
func Randomize() Staffing {
	pool := Debaters()
	i := rand.Intn(len(pool))
	j := rand.Intn(len(pool) - 1)
	if j >= i {
		j++
	}
	return Staffing{VisionarySeat: pool[i], SkepticSeat: pool[j]}
}
