package dataset

import "strings"

// Excerpt is the explanatory text paired with one chart.
type Excerpt struct {
	Shows   string // what the chart shows
	Section string // part of the paper the quote is taken from
	Quote   string
}

// Markdown formats the excerpt the way the details expander displays it.
func (e Excerpt) Markdown() string {
	var sb strings.Builder
	sb.WriteString("**What it shows:** " + e.Shows + "\n\n")
	sb.WriteString("**Part of Paper:** " + e.Section + "\n\n")
	sb.WriteString("**Full Quote:**\n")
	sb.WriteString(e.Quote)
	return sb.String()
}

// Excerpt keys, one per dashboard panel.
const (
	ExcerptPie     = "pie"
	ExcerptBar     = "bar"
	ExcerptRadar   = "radar"
	ExcerptGrouped = "grouped"
	ExcerptHeatmap = "heatmap"
	ExcerptFlow    = "flow"
)

// Excerpts returns the panel texts keyed by the Excerpt* constants.
func Excerpts() map[string]Excerpt {
	return map[string]Excerpt{
		ExcerptPie: {
			Shows:   "Relative contribution of each factor to poor pronunciation.",
			Section: "Statistical Analysis",
			Quote: "From the displayed statistical data, the most responsible factor for the poor pronunciation is Sounds unfamiliarity at Primary level " +
				"which is due to negligence of sounds by teachers at grass root level who from the very start are not taught sounds differences " +
				"and their proper manner and place of articulation. This factor disturbs students’ pronunciation greatly which is 43% double " +
				"than that of Sounds unfamiliarity at tertiary level which is 21%, however this also leaves great impact on the articulation of students’ speaking. " +
				"Similarly, ignoring listening and consulting media for correction pronunciation is comparatively lesser than that of sounds unfamiliarity both at tertiary and primary level which is 14%. " +
				"Likewise, Not copying Natives is too a considerable factor for affecting pronunciation of Pakistani speakers which is 13% almost equal to that of Ignoring listening to media. " +
				"Last but not the least is Comparing L1 sounds with L2 which is 9% the least amount contributing in rough pronunciation of students in Pakistan.",
		},
		ExcerptBar: {
			Shows:   "Comparison of percentage impact of each factor.",
			Section: "Statistical Analysis",
			Quote: "Ignoring input from natives and not exposing to media result in coarse pronunciation where speakers cannot satisfy their needs of communication. " +
				"Similarly, unawareness of sounds at primary and tertiary level by teachers/instructors leads to unsatisfactory speaking. " +
				"Learning English as a second language based on L1 sounds also deforms pronunciation to some extent.",
		},
		ExcerptRadar: {
			Shows:   "Overall comparison of all factors.",
			Section: "Statistical Analysis",
			Quote: "Those who were taught Phonics at initial level were good enough both at manner and place of articulation. " +
				"They had a slight issue in stress and intonation pattern which is not judged here, while those who had poor pronunciation had not been taught Phonics " +
				"and they could not differentiate between slight identical sounds. As compared to Phones aware students, the unaware were less proficient in pronouncing English words.",
		},
		ExcerptGrouped: {
			Shows:   "Difference in pronunciation issues between Primary and Tertiary levels.",
			Section: "Negligence of Teaching Sounds at Primary Level",
			Quote: "Pronunciation at gross root level at the age of three or four years plays important role in speech in the entire life of a speaker. " +
				"Most of the times, in cases such as English as a second language the teachers or instructors at initial level in teaching English pronunciation " +
				"are least concerned with kids standard utterances while instructing them for the basic units in rhymes where students are easy to gain what is taught to them. " +
				"Most importantly, the manner and place of articulation are not usually on right direction which resultantly cause poor pronunciation.",
		},
		ExcerptHeatmap: {
			Shows:   "Visual intensity of each factor’s contribution.",
			Section: "Statistical Analysis",
			Quote: "From the displayed statistical data, ignoring listening and consulting media, not copying natives, sounds unfamiliarity at tertiary and primary levels, " +
				"and comparing L1 with L2 all contribute differently to sub-standard pronunciation in Pakistani learners. " +
				"These factors combined affect articulation, stress, and accuracy of English pronunciation.",
		},
		ExcerptFlow: {
			Shows:   "Conceptual flow from early teaching to poor communication.",
			Section: "Introduction & Negligence at Primary Level",
			Quote: "Teachers or instructors at initial level ... are least concerned with kids standard utterances. " +
				"Most importantly, the manner and place of articulation are not usually on right direction which resultantly cause poor pronunciation; " +
				"for instance the unit BA which is the combination of consonant{b} and vowel{a:} are from the two different classes of sounds " +
				"in which one is Bilabial and the other is long vowel sound.",
		},
	}
}
