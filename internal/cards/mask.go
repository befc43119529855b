package cards

// Mask hides a card number, keeping only the last four digits visible.
// Inputs shorter than four characters mask to "****".
func Mask(number string) string {
	if len(number) < 4 {
		return "****"
	}
	return "**** **** **** " + number[len(number)-4:]
}
