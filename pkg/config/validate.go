// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"strings"
)

// ValidateCore ensures critical configuration is present and sane.
func (c *Config) ValidateCore() error {
	var missing []string

	if strings.TrimSpace(c.Database.URL) == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if strings.TrimSpace(c.Redis.URL) == "" {
		missing = append(missing, "REDIS_URL")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		missing = append(missing, "SERVER_PORT")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return c.Compliance.Validate()
}

// Validate rejects compliance tunables that would break the scoring
// invariants before any request is served.
func (c *ComplianceConfig) Validate() error {
	if c.MaxRiskScore <= 0 {
		return fmt.Errorf("COMPLIANCE_MAX_RISK_SCORE must be positive, got %v", c.MaxRiskScore)
	}
	for name, v := range map[string]float64{
		"COMPLIANCE_PLANTATION_RISK_FACTOR":  c.PlantationRiskFactor,
		"COMPLIANCE_PLANTATION_TRACE_BONUS":  c.PlantationTraceabilityBonus,
		"COMPLIANCE_MILL_RISK_FACTOR":        c.MillRiskFactor,
		"COMPLIANCE_MILL_TRACE_BONUS":        c.MillTraceabilityBonus,
		"COMPLIANCE_DEPTH_TRACE_BONUS":       c.DepthTraceabilityBonus,
		"COMPLIANCE_TRACE_DEPTH_RISK_FACTOR": c.TraceDepthRiskFactor,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %v", name, v)
		}
	}
	if c.MaxSupplyChainDepth <= 0 {
		return fmt.Errorf("COMPLIANCE_MAX_SUPPLY_CHAIN_DEPTH must be positive, got %d", c.MaxSupplyChainDepth)
	}
	if c.MaxReportSize <= 0 {
		return fmt.Errorf("COMPLIANCE_MAX_REPORT_SIZE must be positive, got %d", c.MaxReportSize)
	}
	if c.TemplateCacheSize <= 0 {
		return fmt.Errorf("COMPLIANCE_TEMPLATE_CACHE_SIZE must be positive, got %d", c.TemplateCacheSize)
	}
	return nil
}
