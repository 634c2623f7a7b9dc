package leaderboard

import "sort"

// levelThresholds holds the cumulative xp needed to reach each level,
// indexed by level-1. Level 1 starts at 0 xp; level 100 is the cap.
// The table is strictly increasing, which XPToLevel relies on for its
// binary search.
var levelThresholds = [100]int64{
	0, 640, 1330, 2090, 2920, 3830, 4820, 5890, 7070, 8350,
	9740, 11260, 12920, 14730, 16710, 18860, 21210, 23770, 26560, 29600,
	32920, 36550, 40490, 44800, 49490, 54610, 60200, 66290, 72930, 80170,
	88060, 96670, 106060, 116300, 127470, 139650, 152930, 167410, 183200, 200420,
	219200, 239680, 262020, 286370, 312930, 341890, 373480, 407920, 445480, 486440,
	531110, 579820, 632940, 690860, 754030, 822920, 898040, 979960, 1069290, 1166710,
	1272950, 1388800, 1515140, 1652910, 1803160, 1967000, 2145660, 2340500, 2552980, 2784680,
	3037360, 3312900, 3613390, 3941070, 4298410, 4688090, 5113030, 5576440, 6081800, 6632890,
	7233850, 7889210, 8603890, 9383250, 10233150, 11159970, 12170670, 13272850, 14474790, 15785510,
	17214860, 18773580, 20473370, 22327010, 24348420, 26552780, 28956650, 31578090, 34436800, 37554230,
}

// MaxLevel is the highest attainable level.
const MaxLevel = 100

// XPToLevel maps cumulative xp to the highest level whose threshold is
// at or below it. Zero xp is level 1; anything at or past the last
// threshold is level 100. Negative xp is clamped to level 1.
func XPToLevel(xp int64) int64 {
	// First level whose threshold exceeds xp; the level before it is
	// the answer.
	i := sort.Search(len(levelThresholds), func(i int) bool {
		return levelThresholds[i] > xp
	})
	if i == 0 {
		return 1
	}
	return int64(i)
}

// LevelThreshold returns the cumulative xp required for a level, or 0
// for levels outside 1..100.
func LevelThreshold(level int64) int64 {
	if level < 1 || level > MaxLevel {
		return 0
	}
	return levelThresholds[level-1]
}
