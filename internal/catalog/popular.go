package catalog

// PopularMovieIDs is the default pool of IMDb top rated titles.
var PopularMovieIDs = []string{
	"tt0111161",  // The Shawshank Redemption
	"tt0068646",  // The Godfather
	"tt0468569",  // The Dark Knight
	"tt0108052",  // Schindler's List
	"tt0167260",  // The Return of the King
	"tt0110912",  // Pulp Fiction
	"tt0109830",  // Forrest Gump
	"tt0137523",  // Fight Club
	"tt0120737",  // The Fellowship of the Ring
	"tt0167261",  // The Two Towers
	"tt0080684",  // The Empire Strikes Back
	"tt0133093",  // The Matrix
	"tt0099685",  // Goodfellas
	"tt0073486",  // One Flew Over the Cuckoo's Nest
	"tt0047478",  // Seven Samurai
	"tt0114369",  // Se7en
	"tt0317248",  // City of God
	"tt0076759",  // A New Hope
	"tt0102926",  // The Silence of the Lambs
	"tt0118799",  // Life Is Beautiful
	"tt0120815",  // Saving Private Ryan
	"tt0816692",  // Interstellar
	"tt0054215",  // Psycho
	"tt0120689",  // The Green Mile
	"tt0110413",  // Leon: The Professional
	"tt0103064",  // Terminator 2: Judgment Day
	"tt0088763",  // Back to the Future
	"tt0407887",  // The Departed
	"tt0482571",  // The Prestige
	"tt0034583",  // Casablanca
	"tt0095327",  // Grave of the Fireflies
	"tt0245429",  // Spirited Away
	"tt1375666",  // Inception
	"tt0078788",  // Apocalypse Now
	"tt0114814",  // The Usual Suspects
	"tt0172495",  // Gladiator
	"tt0110357",  // The Lion King
	"tt0095765",  // Cinema Paradiso
	"tt1136608",  // District 9
	"tt0064116",  // Once Upon a Time in the West
	"tt0027977",  // Modern Times
	"tt0253474",  // The Pianist
	"tt0078748",  // Alien
	"tt0910970",  // WALL-E
	"tt0050825",  // Paths of Glory
	"tt0209144",  // Memento
	"tt0090605",  // Aliens
	"tt0211915",  // Amelie
	"tt0405094",  // The Lives of Others
	"tt1675434",  // The Intouchables
	"tt0338013",  // Eternal Sunshine of the Spotless Mind
	"tt0087843",  // Once Upon a Time in America
	"tt0082971",  // Raiders of the Lost Ark
	"tt0082096",  // Das Boot
	"tt20215968", // Hit Man
}
