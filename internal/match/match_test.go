package match

import "testing"

func TestIsMatch(t *testing.T) {
	cases := []struct {
		name  string
		guess string
		title string
		want  bool
	}{
		{"exact after normalization", "the matrix", "The Matrix", true},
		{"surrounding whitespace", "  ALIEN ", "Alien", true},
		{"one typo", "matrx", "Matrix", true},
		{"three typos on long title", "incepshun", "Inception", true},
		{"four typos on long title", "insepshn", "Inception", false},
		{"unrelated short", "cat", "Dog", false},
		{"short title one edit", "ut", "Up", true},
		{"short title two edits", "ab", "Up", false},
		{"substring of long title", "goblet of fire", "Harry Potter and the Goblet of Fire", true},
		{"title inside guess", "i think it is the shawshank redemption", "The Shawshank Redemption", true},
		{"no substring fallback for ten chars", "it", "It Follows", false},
		{"empty guess", "", "Up", false},
		{"whitespace guess", "   ", "Heat", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsMatch(tc.guess, tc.title); got != tc.want {
				t.Fatalf("IsMatch(%q, %q) = %v, want %v", tc.guess, tc.title, got, tc.want)
			}
		})
	}
}

func TestIsMatchShortTitlesRejectDistanceAboveOne(t *testing.T) {
	titles := []string{"Heat", "Up", "Jaws", "Big"}
	guesses := []string{"hxxt", "zz", "jxxs", "bxx", "heaven"}
	for _, title := range titles {
		for _, guess := range guesses {
			if IsMatch(guess, title) {
				t.Fatalf("expected %q not to match short title %q", guess, title)
			}
		}
	}
}

func TestIsMatchLongTitleSubstringIgnoresDistance(t *testing.T) {
	title := "The Lord of the Rings: The Return of the King"
	for _, guess := range []string{"lord of the rings", "return of the king", "the king"} {
		if !IsMatch(guess, title) {
			t.Fatalf("expected substring %q to match %q", guess, title)
		}
	}
}
