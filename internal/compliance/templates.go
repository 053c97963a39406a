package compliance

import "agritrace/internal/domain"

// defaultTemplates holds the built-in document definition for each
// supported regulation type. Used when no active template row exists yet;
// the service persists a copy on first use so generated reports always
// reference a concrete template version.
var defaultTemplates = map[domain.RegulationType]string{
	domain.RegulationEUDR: eudrDefaultTemplate,
	domain.RegulationRSPO: rspoDefaultTemplate,
}

const eudrDefaultTemplate = `=============================================================
EU DEFORESTATION REGULATION (EUDR) DUE DILIGENCE STATEMENT
=============================================================
Purchase Order: {{.po_number}}
Generated At:   {{.generated_at}}

OPERATOR
--------
Name:                {{.operator.name}}
Registration Number: {{if .operator.registration_number}}{{.operator.registration_number}}{{else}}Not specified{{end}}
Address:             {{if .operator.address}}{{.operator.address}}{{else}}Not specified{{end}}
Country:             {{if .operator.country}}{{.operator.country}}{{else}}Not specified{{end}}

PRODUCT
-------
HS Code:     {{.product.hs_code}}
Description: {{.product.description}}
Quantity:    {{.product.quantity}} {{.product.unit}}

SUPPLY CHAIN
------------
Trace Path:  {{.trace_path}}
Trace Depth: {{.trace_depth}}
{{range .supply_chain}}  {{.step_order}}. {{.company_name}} ({{.company_type}}){{if .location}} - {{.location}}{{end}}{{with .coordinates}} [{{.lat}}, {{.lng}}]{{end}}
{{end}}{{with .risk_assessment}}
RISK ASSESSMENT
---------------
Deforestation Risk: {{printf "%.2f" .deforestation_risk}}
Compliance Score:   {{printf "%.2f" .compliance_score}}
Traceability Score: {{printf "%.2f" .traceability_score}}
{{end}}
COMPLIANCE DECLARATION
----------------------
Geolocation evidence collected:     Yes
Supply chain traceability assessed: Yes
Risk assessment completed:          Yes
Due diligence exercised:            Yes
`

const rspoDefaultTemplate = `=============================================================
RSPO SUSTAINABILITY CERTIFICATION REPORT
=============================================================
Purchase Order: {{.po_number}}
Generated At:   {{.generated_at}}

CERTIFICATION
-------------
Certificate Number: {{if .certification.certificate_number}}{{.certification.certificate_number}}{{else}}Not specified{{end}}
Certification Type: {{if .certification.certification_type}}{{.certification.certification_type}}{{else}}Not specified{{end}}
Valid Until:        {{if .certification.valid_until}}{{.certification.valid_until}}{{else}}Not specified{{end}}

PRODUCT
-------
HS Code:     {{.product.hs_code}}
Description: {{.product.description}}
Quantity:    {{.product.quantity}} {{.product.unit}}

SUPPLY CHAIN
------------
Trace Path:  {{.trace_path}}
Trace Depth: {{.trace_depth}}
{{range .supply_chain}}  {{.step_order}}. {{.company_name}} ({{.company_type}}){{if .location}} - {{.location}}{{end}}
{{end}}{{with .mass_balance}}
MASS BALANCE
------------
Input Quantity:   {{.input_quantity}}
Output Quantity:  {{.output_quantity}}
Yield Percentage: {{.yield_percentage}}%
Waste Percentage: {{.waste_percentage}}%
{{end}}
SUSTAINABILITY
--------------
GHG Emissions:      {{if .sustainability.ghg_emissions}}{{.sustainability.ghg_emissions}}{{else}}Not specified{{end}}
Water Usage:        {{if .sustainability.water_usage}}{{.sustainability.water_usage}}{{else}}Not specified{{end}}
Energy Consumption: {{if .sustainability.energy_consumption}}{{.sustainability.energy_consumption}}{{else}}Not specified{{end}}
`
