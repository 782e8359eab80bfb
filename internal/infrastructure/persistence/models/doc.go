// Package models contains the GORM persistence models of the catalog tables.
// Domain entities carry no GORM tags; each model converts to and from its
// entity with ToDomain and FromDomain, and repositories only ever hand
// models to GORM.
package models
