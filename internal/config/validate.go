package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. The TMDB API key is not
// checked here: commands that only report on the environment (status,
// config show) must run without one, so the key requirement lives where
// the pipeline is built.
func (c *Config) Validate() error {
	if err := c.validateTrailers(); err != nil {
		return err
	}
	if err := c.validateWorkers(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTrailers() error {
	switch c.Trailers.MinResolution {
	case 480, 720, 1080:
	default:
		return fmt.Errorf("trailers.min_resolution must be 480, 720, or 1080 (got %d)", c.Trailers.MinResolution)
	}
	switch c.Trailers.MoviePolicy {
	case "last", "first", "error":
	default:
		return fmt.Errorf("trailers.movie_policy must be last, first, or error (got %q)", c.Trailers.MoviePolicy)
	}
	if len(c.Trailers.Languages) == 0 {
		return errors.New("trailers.languages must include at least one language")
	}
	return nil
}

func (c *Config) validateWorkers() error {
	if c.Workers.Count < 0 {
		return errors.New("workers.count must be >= 0")
	}
	return nil
}
