package transaction

import (
	"fmt"
	"io"
	"strings"

	"github.com/near/near-cli-go/rpc"
)

// PrintTransaction prints a human readable summary of a transaction.
func PrintTransaction(w io.Writer, tx Unsigned) {
	fmt.Fprintf(w, "Signer:     %s\n", tx.SignerID)
	fmt.Fprintf(w, "Receiver:   %s\n", tx.ReceiverID)
	if tx.PublicKey.IsValid() {
		fmt.Fprintf(w, "Public key: %s\n", tx.PublicKey)
	}
	if tx.assigned&fieldNonce != 0 {
		fmt.Fprintf(w, "Nonce:      %d\n", tx.Nonce)
	}
	if tx.assigned&fieldBlockHash != 0 {
		fmt.Fprintf(w, "Block hash: %s\n", tx.BlockHash)
	}
	fmt.Fprintf(w, "Actions:\n")
	for _, a := range tx.Actions {
		fmt.Fprintf(w, "  - %s\n", a)
	}
}

// StatusPrinter returns a broadcast observer printing status lines to w.
func StatusPrinter(w io.Writer) func(Transition) {
	return func(t Transition) {
		switch {
		case t.From == StateSubmitting && t.To == StateRetrying:
			fmt.Fprintf(w, "Transaction not confirmed yet: %s\n", t.Err)
			fmt.Fprintf(w, "Please wait. The next try to send this transaction is happening right now...\n")
		case t.To == StateConfirmed:
			fmt.Fprintf(w, "Transaction executed.\n")
		}
	}
}

// PrintOutcome prints the final outcome of a transaction. When explorerURL is not empty a link
// to the transaction is printed as well.
func PrintOutcome(w io.Writer, outcome *rpc.FinalExecutionOutcome, explorerURL string) {
	fmt.Fprintf(w, "Transaction hash: %s\n", outcome.TransactionOutcome.ID)
	fmt.Fprintf(w, "Status:           %s\n", outcome.Status)
	fmt.Fprintf(w, "Gas burnt:        %s\n", outcome.TotalGasBurnt())
	if logs := outcome.Logs(); len(logs) > 0 {
		fmt.Fprintf(w, "Logs:\n")
		for _, l := range logs {
			fmt.Fprintf(w, "  %s\n", l)
		}
	}
	if explorerURL != "" {
		fmt.Fprintf(w, "To see the transaction in the explorer, open: %s/transactions/%s\n",
			strings.TrimSuffix(explorerURL, "/"),
			outcome.TransactionOutcome.ID,
		)
	}
}
