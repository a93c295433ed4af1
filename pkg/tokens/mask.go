package tokens

// Mask redacts an access token for display: short tokens disappear entirely,
// longer ones keep the first 6 and last 4 characters.
func Mask(t string) string {
	if t == "" {
		return t
	}
	if len(t) <= 10 {
		return "****"
	}
	return t[:6] + "…hidden…" + t[len(t)-4:]
}
