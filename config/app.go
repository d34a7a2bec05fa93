package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	Denda Denda
}

// Denda holds the fee rates in rupiah. The rates are loaded once and handed
// to the denda calculator at construction, never read from the environment
// at call time.
type Denda struct {
	PerHari     float64 `env:"DENDA_PER_HARI" default:"10000"`
	RusakRingan float64 `env:"DENDA_KERUSAKAN_RINGAN" default:"50000"`
	RusakBerat  float64 `env:"DENDA_KERUSAKAN_BERAT" default:"200000"`
	Maks        float64 `env:"MAX_DENDA" default:"1000000"`
}
