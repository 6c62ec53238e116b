package send

import "fmt"

// DeriveReplyTo builds the inbound-parse reply address for a delivery. The
// format is fixed: parse+{transactionId}-nv-e={environmentId}@{domain}, no
// additional encoding.
func DeriveReplyTo(transactionID, environmentID, domain string) string {
	return fmt.Sprintf("parse+%s-nv-e=%s@%s", transactionID, environmentID, domain)
}
