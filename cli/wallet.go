package cli

import (
	"fmt"

	"ff-portal/client"
	"ff-portal/models"
	"ff-portal/rules"
	"ff-portal/shell"

	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show balance, receiving numbers and transactions",
	RunE:  runWallet,
}

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Request a deposit after sending money to the portal's number",
	Long: `Request a deposit. Send the money to the portal's bKash or Nagad number
first; an administrator checks the transaction ID and credits the balance.`,
	RunE: runDeposit,
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Request a withdrawal to your bKash or Nagad number",
	RunE:  runWithdraw,
}

func init() {
	walletCmd.Flags().Bool("withdraw", false, "Show the withdrawal form")

	depositCmd.Flags().Int64("amount", 0, "Amount sent")
	depositCmd.Flags().String("method", string(models.MethodBkash), "bKash or Nagad")
	depositCmd.Flags().String("sender", "", "Number the money was sent from")
	depositCmd.Flags().String("txid", "", "Transaction ID of the transfer")

	withdrawCmd.Flags().Int64("amount", 0, "Amount to withdraw")
	withdrawCmd.Flags().String("method", string(models.MethodBkash), "bKash or Nagad")
	withdrawCmd.Flags().String("number", "", "Number to receive the money")
}

func runWallet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	if withdraw, _ := cmd.Flags().GetBool("withdraw"); withdraw {
		a.dispatch(shell.SelectWallet{Tab: shell.TabWithdraw})
	}
	return a.show(cmd.Context(), shell.ViewWallet)
}

func runDeposit(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	amount, _ := cmd.Flags().GetInt64("amount")
	method, _ := cmd.Flags().GetString("method")
	sender, _ := cmd.Flags().GetString("sender")
	txid, _ := cmd.Flags().GetString("txid")

	if err := rules.ValidateDeposit(amount, sender, txid); err != nil {
		return a.fail(err)
	}
	tx, err := a.api.Deposit(cmd.Context(), client.Deposit{
		Amount:        amount,
		Method:        models.PaymentMethod(method),
		SenderNumber:  sender,
		TransactionID: txid,
	})
	if err != nil {
		return a.fail(err)
	}
	a.say("deposit_success")
	fmt.Fprintf(a.out, "%s  %s  %s\n", tx.ID, a.r.Money(tx.Amount), tx.Status)
	return nil
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	amount, _ := cmd.Flags().GetInt64("amount")
	method, _ := cmd.Flags().GetString("method")
	number, _ := cmd.Flags().GetString("number")

	profile, err := a.api.Me(cmd.Context())
	if err != nil {
		return a.fail(err)
	}
	if err := rules.ValidateWithdrawal(amount, profile.Balance, number); err != nil {
		return a.fail(err)
	}
	tx, err := a.api.Withdraw(cmd.Context(), client.Withdrawal{
		Amount: amount,
		Method: models.PaymentMethod(method),
		Number: number,
	})
	if err != nil {
		return a.fail(err)
	}
	a.say("withdraw_success")
	fmt.Fprintf(a.out, "%s  %s  %s\n", tx.ID, a.r.Money(tx.Amount), tx.Status)
	return nil
}
