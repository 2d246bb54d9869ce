package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zeu5/collabsort/board"
)

const EnvPrefix = "COLLABSORT"

// LoadEnv loads the first .env file found among the candidates
func LoadEnv(candidates ...string) {
	if len(candidates) == 0 {
		candidates = []string{".env", "../.env", "../../.env"}
	}
	for _, envFile := range candidates {
		if err := godotenv.Load(envFile); err == nil {
			log.Printf("[APP] [INFO] loaded environment from %s", envFile)
			return
		}
	}
}

// ApplyEnv overrides run specific values from COLLABSORT_* variables
// and validates the result.
func ApplyEnv(c *board.Config) error {
	vp := viper.New()
	vp.SetEnvPrefix(EnvPrefix)
	vp.AutomaticEnv()

	if vp.IsSet("seed") {
		c.Seed = vp.GetInt64("seed")
	}
	if vp.IsSet("n_objects") {
		c.NObjects = vp.GetInt("n_objects")
	}
	if vp.IsSet("initial_objects") {
		c.InitialObjects = vp.GetInt("initial_objects")
	}
	if vp.IsSet("new_object_proba") {
		c.NewObjectProba = vp.GetFloat64("new_object_proba")
	}
	if vp.IsSet("allow_stacked_spawns") {
		c.AllowStackedSpawns = vp.GetBool("allow_stacked_spawns")
	}
	return c.Validate()
}

func writeFile(path string, bs []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}
