package extract

// Config holds the tunables of the extraction pipeline: keyword lists, the
// deadline search window and length/plausibility thresholds. It is built
// explicitly and passed in; nothing in the package reads ambient state.
type Config struct {
	// Classifier keyword lists. FundingKeywords are general grant
	// terminology; ProceduralKeywords are locale-specific procedural terms.
	FundingKeywords    []string
	ProceduralKeywords []string
	MinKeywordHits     int

	// Secondary classification heuristic: a page mentioning a deadline term,
	// a currency term and a beneficiary term is an opportunity even below
	// MinKeywordHits.
	DeadlineKeywords []string
	CurrencyTerms    []string
	BeneficiaryTerms []string

	// Deadline extraction: characters scanned after a deadline keyword.
	DeadlineWindow int

	// Field plausibility thresholds.
	MinTitleLen       int
	MinSentenceLen    int
	MaxDescriptionLen int
	DescSentences     int

	// Amount extraction. Numbers found after a financial keyword without a
	// currency marker are accepted only above MinPlainAmount, which keeps
	// percentages and dates out of the range.
	FinancialKeywords []string
	MinPlainAmount    float64
	DefaultAmountMin  float64
	DefaultAmountMax  float64

	// Worker pool size for per-page extraction. Pages are independent, so
	// output order is not a correctness property.
	Workers int
}

// DefaultConfig returns the tuning used in production for Italian sources.
func DefaultConfig() Config {
	return Config{
		FundingKeywords: []string{
			"incentivo", "incentivi", "bando", "bandi", "contributo", "contributi",
			"agevolazione", "agevolazioni", "voucher", "pnrr", "finanziamento",
			"fondo perduto", "credito d'imposta", "sovvenzione",
		},
		ProceduralKeywords: []string{
			"scadenza", "beneficiari", "soggetti ammissibili", "domanda di",
			"presentazione delle domande", "dotazione finanziaria", "spese ammissibili",
			"graduatoria", "sportello", "pmi",
		},
		MinKeywordHits: 3,

		DeadlineKeywords: []string{
			"scadenza", "termine", "entro il", "fino al", "data limite", "chiusura",
		},
		CurrencyTerms:    []string{"€", "euro", "eur"},
		BeneficiaryTerms: []string{"impresa", "imprese", "azienda", "aziende", "pmi"},

		DeadlineWindow: 150,

		MinTitleLen:       3,
		MinSentenceLen:    30,
		MaxDescriptionLen: 500,
		DescSentences:     4,

		FinancialKeywords: []string{
			"contributo", "finanziamento", "importo", "budget", "investimento",
		},
		MinPlainAmount:   1000,
		DefaultAmountMin: 10000,
		DefaultAmountMax: 500000,

		Workers: 4,
	}
}
