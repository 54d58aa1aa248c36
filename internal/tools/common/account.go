package common

// GetAccountFromArgs extracts the account name from request arguments.
// Defaults to "default" when no account is explicitly provided.
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return "default"
}
