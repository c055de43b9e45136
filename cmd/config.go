package cmd

// Config carries the environment settings the application needs at startup.
type Config struct {
	HTTPPort            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	StalePaymentTimeout string
}
