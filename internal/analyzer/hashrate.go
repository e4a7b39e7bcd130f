package analyzer

// EstimateHashRate estimates network hashes per second from the difficulty
// and the observed block interval, using the conversion described at
// https://en.bitcoin.it/wiki/Difficulty.
func EstimateHashRate(difficulty, secondsPerBlock float64) float64 {
	expectedHashes := difficulty * float64(int64(1)<<48) / 0xffff
	return expectedHashes / secondsPerBlock
}
