// Binary marketstate computes daily market regime records from price history
// and a user-editable signal configuration.
package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local overrides such as MARKETSTATE_CONFIG.
	_ = godotenv.Load()
	Execute()
}
