package generate

import "math/rand"

// SamplePool holds the categorical vocabularies one worker draws from. Each
// worker constructs its own pool; nothing here is shared or reset between
// workers.
type SamplePool struct {
	Channels  []string
	Tags      []string
	OSNames   []string
	Models    []string
	Countries []string
	Cities    []string
	Keys      []string
	Words     []string
}

// NewSamplePool builds the default vocabularies.
func NewSamplePool() *SamplePool {
	return &SamplePool{
		Channels:  []string{"APP001", "WEB001", "H5001", "API001", "WX001", "ALI001", "JD001", "PDD001", "MINI001", "PC001"},
		Tags:      []string{"new", "vip", "active", "churned", "trial", "promo", "organic", "paid"},
		OSNames:   []string{"iOS", "Android", "Windows", "MacOS", "Linux"},
		Models:    []string{"SM-G991", "iPhone14,2", "Pixel 7", "MI 11", "ThinkPad X1"},
		Countries: []string{"CN", "US", "DE", "JP", "BR", "IN"},
		Cities:    []string{"Beijing", "Shanghai", "Berlin", "Tokyo", "Austin", "Mumbai"},
		Keys:      []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"},
		Words:     []string{"order", "click", "view", "cart", "refund", "search", "share", "login", "logout", "pay"},
	}
}

func (p *SamplePool) pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

const alphanum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomText produces an alphanumeric string with length in [1, maxLen].
func randomText(rng *rand.Rand, maxLen int) string {
	n := 1 + rng.Intn(maxLen)
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanum[rng.Intn(len(alphanum))]
	}
	return string(b)
}
