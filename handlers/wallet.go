package handlers

import (
	"ff-portal/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(secured fiber.Router, admin fiber.Router, walletService *services.WalletService) {
	secured.Get("/wallet", walletService.GetWallet)
	secured.Post("/wallet/deposits", walletService.RequestDeposit)
	secured.Post("/wallet/withdrawals", walletService.RequestWithdrawal)

	admin.Get("/transactions", walletService.ListTransactions)
	admin.Patch("/transactions/:id/status", walletService.UpdateTransactionStatus)
	admin.Post("/users/:id/balance", walletService.AdjustBalance)
}
