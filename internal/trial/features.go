package trial

import "github.com/invoiceflow-app/invoiceflow/go/internal/models"

// featuresForPlan derives the flag set granted for the trial period. The base
// set is on for every trial plan; the last four unlock only on enterprise.
func featuresForPlan(plan models.Plan) map[string]bool {
	enterprise := plan == models.PlanEnterprise
	return map[string]bool{
		"unlimitedInvoices":  true,
		"advancedAutomation": true,
		"customBranding":     true,
		"multiCurrency":      true,
		"analytics":          true,
		"prioritySupport":    true,
		"teamCollaboration":  enterprise,
		"apiAccess":          enterprise,
		"ssoIntegration":     enterprise,
		"whiteLabel":         enterprise,
	}
}
