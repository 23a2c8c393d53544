package match

// Config holds the scoring weights and the materialization cutoff. All
// point values are absolute contributions; weights also feed the
// applicable-weight denominator.
type Config struct {
	// Sector factor: full weight on a direct sector match, reduced credit
	// when only the client's broader interest set overlaps.
	SectorWeight         float64
	SectorInterestCredit float64

	// Regional factor: full weight when a regional opportunity names the
	// client's region, a penalty when it names a different one, and a flat
	// partial credit for national/european calls with no regional gate.
	RegionWeight     float64
	RegionFlatCredit float64
	RegionPenalty    float64

	SizeWeight   float64
	AmountWeight float64

	// ScoreCutoff is the single threshold below which a pair is not
	// materialized into a match record. Batch and incremental generation
	// share it.
	ScoreCutoff int
}

// DefaultScoreCutoff is applied by both batch and single-opportunity
// match generation.
const DefaultScoreCutoff = 60

func DefaultConfig() Config {
	return Config{
		SectorWeight:         40,
		SectorInterestCredit: 25,
		RegionWeight:         30,
		RegionFlatCredit:     20,
		RegionPenalty:        20,
		SizeWeight:           20,
		AmountWeight:         10,
		ScoreCutoff:          DefaultScoreCutoff,
	}
}
