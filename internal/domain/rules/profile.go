package rules

import (
	"sort"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/model"
)

// ClassifyProfile maps six ternary quiz answers to one of six profile tags.
// All six answers count toward the letter totals; answers q4-q6 double as the
// tie-break signal, with q6 as the final decider.
//
// Decision order:
//  1. a strict majority letter wins its pure profile
//  2. a two-way tie is broken by the q4-q6 counts, then by q6, then
//     alphabetically, and yields the fixed hybrid tag for the tied pair
//  3. a three-way (2-2-2) tie falls through to the q4-q6 counts alone,
//     then to q6's letter
//
// The function is total over completed quizzes and has no side effects. The
// same decision procedure runs in the kiosk frontend; any change here must be
// mirrored there or displayed and generated profiles will disagree.
func ClassifyProfile(answers model.QuizAnswers) enums.ProfileType {
	slots := answers.Slots()

	counts := map[enums.Answer]int{}
	for _, a := range slots {
		if a.Valid() {
			counts[a]++
		}
	}

	futureCounts := map[enums.Answer]int{}
	for _, a := range slots[3:] {
		if a.Valid() {
			futureCounts[a]++
		}
	}

	letters := []enums.Answer{enums.AnswerA, enums.AnswerB, enums.AnswerC}
	sort.SliceStable(letters, func(i, j int) bool {
		if counts[letters[i]] != counts[letters[j]] {
			return counts[letters[i]] > counts[letters[j]]
		}
		return letters[i] < letters[j]
	})
	first, second, third := letters[0], letters[1], letters[2]

	// Clear winner.
	if counts[first] > counts[second] {
		return pureProfile(first)
	}

	// Two-way tie for the top spot. The future counts and q6 order the tied
	// pair, but every ordering of a pair maps to the same hybrid tag.
	if counts[second] > counts[third] {
		primary := tieWinner(first, second, futureCounts, answers.Q6)
		secondary := first
		if primary == first {
			secondary = second
		}
		return hybridProfile(primary, secondary)
	}

	// Three-way tie: only the future answers decide.
	winner, decided := futureLeader(futureCounts)
	if decided {
		return pureProfile(winner)
	}
	if answers.Q6.Valid() {
		return pureProfile(answers.Q6)
	}
	return enums.ProfileSteward
}

// tieWinner picks the primary letter of a two-way tie: higher q4-q6 count
// first, then q6's letter if it is one of the pair, then alphabetical.
func tieWinner(a, b enums.Answer, futureCounts map[enums.Answer]int, q6 enums.Answer) enums.Answer {
	if futureCounts[a] > futureCounts[b] {
		return a
	}
	if futureCounts[b] > futureCounts[a] {
		return b
	}
	if q6 == a || q6 == b {
		return q6
	}
	if a < b {
		return a
	}
	return b
}

func futureLeader(futureCounts map[enums.Answer]int) (enums.Answer, bool) {
	letters := []enums.Answer{enums.AnswerA, enums.AnswerB, enums.AnswerC}
	for _, candidate := range letters {
		leads := true
		for _, other := range letters {
			if other != candidate && futureCounts[other] >= futureCounts[candidate] {
				leads = false
				break
			}
		}
		if leads {
			return candidate, true
		}
	}
	return "", false
}

func pureProfile(letter enums.Answer) enums.ProfileType {
	switch letter {
	case enums.AnswerA:
		return enums.ProfileGuardian
	case enums.AnswerB:
		return enums.ProfileSteward
	default:
		return enums.ProfileShaper
	}
}

// hybridProfile maps an unordered tied pair to its fixed hybrid tag. The
// names are not alphabetical-pair literals; each pair has exactly one tag.
func hybridProfile(a, b enums.Answer) enums.ProfileType {
	pair := string(a) + string(b)
	if b < a {
		pair = string(b) + string(a)
	}
	switch pair {
	case "AB":
		return enums.ProfileGuardianSteward
	case "BC":
		return enums.ProfileStewardShaper
	default: // AC
		return enums.ProfileAdaptiveGuardian
	}
}

// SceneForProfile fixes the scene category a profile generates into. The
// storage layer only accepts past/present/future keys, so the profile tag is
// resolved here once instead of being threaded through the wire format.
func SceneForProfile(profile enums.ProfileType) enums.SceneCategory {
	switch profile {
	case enums.ProfileGuardian, enums.ProfileGuardianSteward:
		return enums.ScenePast
	case enums.ProfileSteward, enums.ProfileStewardShaper:
		return enums.ScenePresent
	default:
		return enums.SceneFuture
	}
}
