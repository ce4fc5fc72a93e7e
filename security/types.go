// Package security holds the whitelist that bounds which internal API
// resources the tool gateway may reach.
package security

// Method is an HTTP verb a tool invocation may use.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// SupportedMethods lists the verbs accepted by the gateway, in schema order.
var SupportedMethods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete}

// HasBody reports whether requests with this verb carry a JSON payload.
func (m Method) HasBody() bool {
	return m == MethodPost || m == MethodPut
}

// ParseMethod returns the Method for s, or false if s is not supported.
// Matching is exact; callers normalize case first.
func ParseMethod(s string) (Method, bool) {
	for _, m := range SupportedMethods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// DefaultRoots are the internal API root resources reachable through tools.
var DefaultRoots = []string{
	"/bateaux",
	"/catalogue/bateaux",
	"/catalogue/fournisseurs",
	"/catalogue/helices",
	"/catalogue/moteurs",
	"/catalogue/produits",
	"/catalogue/remorques",
	"/clients",
	"/competences",
	"/forfaits",
	"/fournisseur-bateau",
	"/fournisseur-helice",
	"/fournisseur-moteur",
	"/fournisseur-produit",
	"/fournisseur-remorque",
	"/moteurs",
	"/remorques",
	"/services",
	"/societe",
	"/techniciens",
	"/transactions",
	"/users",
	"/ventes",
}
