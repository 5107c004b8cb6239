// Package redecred provides a CLI lookup tool for the GEAP accredited
// provider network ("rede credenciada"). It lists catalog domains (states,
// cities, plans, provider types, specialties), pages through provider
// searches, and repeats each search for neighboring municipalities and for
// the reciprocity variant of eligible plans.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, sqlite/, ibge/).
package redecred
