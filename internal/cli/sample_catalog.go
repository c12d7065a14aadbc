package cli

import (
	"movie-quiz-service/internal/domain"
	"movie-quiz-service/internal/infra/memory"
)

// sampleCatalog provides a small offline movie set; configure a RapidAPI key
// to play against the full IMDb catalog.
func sampleCatalog() *memory.StaticCatalog {
	movies := []domain.Movie{
		{
			ID:          "tt0133093",
			Title:       "The Matrix",
			Year:        1999,
			Description: "A computer hacker learns that his reality is a simulation and joins a rebellion against its machine overlords.",
			Keywords:    []string{"hacker", "simulation", "virtual reality", "prophecy", "martial arts", "dystopia", "rebellion", "bullet time", "artificial intelligence", "chosen one"},
			Genres:      []string{"Action", "Sci-Fi"},
			IMDbID:      "tt0133093",
		},
		{
			ID:          "tt0110912",
			Title:       "Pulp Fiction",
			Year:        1994,
			Description: "The lives of two mob hitmen, a boxer, a gangster and his wife intertwine in four tales of violence and redemption.",
			Keywords:    []string{"hitman", "briefcase", "dance contest", "nonlinear timeline", "boxer", "diner robbery", "overdose", "los angeles", "gangster", "redemption"},
			Genres:      []string{"Crime", "Drama"},
			IMDbID:      "tt0110912",
		},
		{
			ID:          "tt0088763",
			Title:       "Back to the Future",
			Year:        1985,
			Description: "A teenager is accidentally sent thirty years into the past in a time-traveling car and must make sure his parents fall in love.",
			Keywords:    []string{"time travel", "scientist", "high school", "lightning", "skateboard", "prom", "plutonium", "small town", "teenager", "sports car"},
			Genres:      []string{"Adventure", "Comedy", "Sci-Fi"},
			IMDbID:      "tt0088763",
		},
	}
	quotes := map[string][]domain.Quote{
		"tt0133093": {
			{ID: "q1", Text: "There is no spoon.", Character: "Spoon Boy"},
			{ID: "q2", Text: "I know kung fu.", Character: "Neo"},
			{ID: "q3", Text: "Welcome to the real world.", Character: "Morpheus"},
		},
		"tt0110912": {
			{ID: "q1", Text: "Say what again. I dare you.", Character: "Jules"},
			{ID: "q2", Text: "Zed's dead, baby. Zed's dead.", Character: "Butch"},
			{ID: "q3", Text: "That's a pretty good milkshake.", Character: "Vincent"},
		},
		"tt0088763": {
			{ID: "q1", Text: "Roads? Where we're going, we don't need roads.", Character: "Doc Brown"},
			{ID: "q2", Text: "Great Scott!", Character: "Doc Brown"},
			{ID: "q3", Text: "Hello? Hello? Anybody home?", Character: "Biff"},
		},
	}
	trivia := map[string][]domain.TriviaFact{
		"tt0133093": {
			{ID: "t1", Text: "Will Smith turned down the role of Neo to star in Wild Wild West."},
			{ID: "t2", Text: "The green tint of the simulated world was added in post-production."},
		},
		"tt0110912": {
			{ID: "t1", Text: "The film was made on a budget of about eight million dollars."},
			{ID: "t2", Text: "The dance scene at Jack Rabbit Slim's was inspired by a scene from Band of Outsiders."},
		},
		"tt0088763": {
			{ID: "t1", Text: "Eric Stoltz was originally cast as the lead and filmed for several weeks before being replaced."},
			{ID: "t2", Text: "The time machine needs 1.21 gigawatts of power."},
		},
	}
	return memory.NewStaticCatalog(movies, quotes, trivia)
}
