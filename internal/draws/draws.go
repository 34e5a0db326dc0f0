// internal/draws/draws.go
package draws

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/ruafit/ruafit/internal/sports"
)

// ByeTeam is the synthetic participant added to balance an odd team
// count; matches involving it are omitted from generated schedules.
const ByeTeam = "BYE"

// PairingMode selects how teams are seeded into a bracket.
type PairingMode string

const (
	PairSequential PairingMode = "sequential"
	PairRandom     PairingMode = "random"
)

var (
	ErrRoundCount     = errors.New("round count must be at least 1")
	ErrNotEnoughTeams = errors.New("not enough teams for the requested rounds")
)

// GenerateRoundRobin produces a pool-play schedule where every pair of
// teams meets exactly once, using the circle method: the first
// participant stays fixed while the rest rotate through n-1 rounds,
// pairing position i against position n-1-i. Odd team counts get a BYE
// participant whose matches are dropped. Rounds are numbered from 1.
// Fewer than two teams yields an empty schedule.
func GenerateRoundRobin(teams []string) []sports.Match {
	if len(teams) < 2 {
		return []sports.Match{}
	}

	working := make([]string, len(teams))
	copy(working, teams)
	if len(working)%2 == 1 {
		working = append(working, ByeTeam)
	}

	rounds := len(working) - 1
	matches := make([]sports.Match, 0, rounds*len(working)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < len(working)/2; i++ {
			home := working[i]
			away := working[len(working)-1-i]
			if home == ByeTeam || away == ByeTeam {
				continue
			}
			matches = append(matches, sports.Match{
				Home:  home,
				Away:  away,
				Round: round + 1,
			})
		}
		rotate(working)
	}

	return matches
}

// rotate advances the circle one step, keeping position 0 fixed.
func rotate(teams []string) {
	if len(teams) <= 2 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}

// Summary reports the shape of a full round robin over n teams:
// n-1 rounds, floor(n/2) matches per round, n(n-1)/2 matches total.
func Summary(n int) (rounds, perRound, total int) {
	if n < 2 {
		return 0, 0, 0
	}
	return n - 1, n / 2, n * (n - 1) / 2
}

// BuildCustomRounds generates a single-elimination bracket structure
// over the first 2^roundCount teams. Random pairing shuffles a copy of
// the team list before seeding; sequential keeps input order. The first
// round pairs seed i against seed N-1-i; later rounds hold positional
// placeholders for the prior round's winners, since results are not
// tracked here.
func BuildCustomRounds(teams []string, roundCount int, mode PairingMode, rng *rand.Rand) (*sports.CustomRounds, error) {
	if roundCount < 1 {
		return nil, ErrRoundCount
	}
	size := 1 << roundCount
	if len(teams) < size {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughTeams, size, len(teams))
	}

	seeded := teams
	if mode == PairRandom {
		seeded = Shuffle(teams, rng)
	}
	seeded = seeded[:size]

	result := &sports.CustomRounds{
		RoundCount:  roundCount,
		TeamCount:   size,
		PairingMode: string(mode),
	}

	first := sports.Round{Name: roundName(1, size/2)}
	for i := 0; i < size/2; i++ {
		first.Matches = append(first.Matches, sports.Pairing{
			Home: seeded[i],
			Away: seeded[size-1-i],
		})
	}
	result.Rounds = append(result.Rounds, first)

	for r := 2; r <= roundCount; r++ {
		prior := result.Rounds[r-2]
		round := sports.Round{Name: roundName(r, len(prior.Matches)/2)}
		for i := 0; i < len(prior.Matches)/2; i++ {
			round.Matches = append(round.Matches, sports.Pairing{
				Home: winnerLabel(prior.Name, 2*i+1),
				Away: winnerLabel(prior.Name, 2*i+2),
			})
		}
		result.Rounds = append(result.Rounds, round)
	}

	return result, nil
}

func roundName(position, matchCount int) string {
	switch matchCount {
	case 1:
		return "Final"
	case 2:
		return "Semifinals"
	case 4:
		return "Quarterfinals"
	default:
		return fmt.Sprintf("Round %d", position)
	}
}

func winnerLabel(priorRound string, slot int) string {
	return fmt.Sprintf("Winner %s %d", strings.TrimSpace(priorRound), slot)
}

// Shuffle returns a uniformly random permutation of teams, leaving the
// input untouched. Standard Fisher-Yates from the last index down; each
// permutation is equally likely given a uniform source. A nil rng falls
// back to the shared global source.
func Shuffle(teams []string, rng *rand.Rand) []string {
	shuffled := make([]string, len(teams))
	copy(shuffled, teams)
	for i := len(shuffled) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
