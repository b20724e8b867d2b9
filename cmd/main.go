package main

import (
	"bank-ledger/app"
)

// @title           Bank Ledger API
// @version         1.0
// @description     Multi-bank account ledger with deposits, withdrawals and cross-bank transfers.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
