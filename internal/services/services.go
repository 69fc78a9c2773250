// Package services regroupe la logique métier entre les handlers HTTP et la
// persistance gorm. Chaque service reçoit le handle *gorm.DB et expose des
// opérations transactionnelles.
package services

import "math"

func round2(v float64) float64 { return math.Round(v*100) / 100 }
