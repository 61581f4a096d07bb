package models

import (
	"database/sql"
	"math"
)

// Value оборачивает число в sql.NullFloat64; NaN и бесконечности считаются отсутствием значения
func Value(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// Percent возвращает numerator / denominator * 100.
// Результат пустой, если любой из операндов отсутствует или знаменатель не положителен
func Percent(numerator, denominator sql.NullFloat64) sql.NullFloat64 {
	if !numerator.Valid || !denominator.Valid || denominator.Float64 <= 0 {
		return sql.NullFloat64{}
	}
	return Value(numerator.Float64 / denominator.Float64 * 100)
}

// Ptr переводит значение в указатель для JSON (null вместо нуля)
func Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// RankDesc сравнивает значения для сортировки по убыванию, пустые значения всегда в конце.
// decided равен false, если значения равны и нужен дополнительный ключ сортировки
func RankDesc(a, b sql.NullFloat64) (before bool, decided bool) {
	switch {
	case a.Valid && !b.Valid:
		return true, true
	case !a.Valid && b.Valid:
		return false, true
	case !a.Valid && !b.Valid:
		return false, false
	case a.Float64 != b.Float64:
		return a.Float64 > b.Float64, true
	default:
		return false, false
	}
}
