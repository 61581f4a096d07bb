package linear_regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RoundToThousandth округляет число до тысячных (3 знака после запятой)
func RoundToThousandth(value float64) float64 {
	return math.Round(value*1000) / 1000
}

// LinearRegression строит модель y = slope*x + intercept методом наименьших квадратов
func LinearRegression(points []DataPoint) (*RegressionResult, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("для расчета линейной регрессии требуется минимум 3 точки, получено: %d", len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	minDate, maxDate := points[0].Date, points[0].Date
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
		if p.Date.Before(minDate) {
			minDate = p.Date
		}
		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	if stat.Variance(xs, nil) == 0 {
		return nil, fmt.Errorf("все X одинаковы, невозможно вычислить наклон")
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	// Постоянный ряд: корреляция не определена, считаем ее нулевой
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		r = 0
	}

	return &RegressionResult{
		Slope:       RoundToThousandth(slope),
		Intercept:   RoundToThousandth(intercept),
		R:           RoundToThousandth(r),
		R2:          RoundToThousandth(r * r),
		PeriodStart: minDate,
		PeriodEnd:   maxDate,
		DataPoints:  points,
	}, nil
}

// Predict прогнозирует значение Y для заданного X
func Predict(result *RegressionResult, x float64) float64 {
	return RoundToThousandth(result.Slope*x + result.Intercept)
}

// CalculateConfidenceInterval границы интервала предсказания для x.
// Квантиль берется из распределения Стьюдента с n-2 степенями свободы
func CalculateConfidenceInterval(result *RegressionResult, x float64, confidenceLevel float64) (float64, float64) {
	n := float64(len(result.DataPoints))

	xs := make([]float64, len(result.DataPoints))
	for i, p := range result.DataPoints {
		xs[i] = p.X
	}
	meanX := stat.Mean(xs, nil)

	var sumSqDevX, sumSqResiduals float64
	for _, p := range result.DataPoints {
		residual := p.Y - Predict(result, p.X)
		sumSqDevX += (p.X - meanX) * (p.X - meanX)
		sumSqResiduals += residual * residual
	}

	standardError := math.Sqrt(sumSqResiduals / (n - 2))
	predictionStdError := standardError * math.Sqrt(1+1/n+(x-meanX)*(x-meanX)/sumSqDevX)

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 2}
	tStat := t.Quantile(1 - (1-confidenceLevel)/2)

	margin := tStat * predictionStdError
	yPred := Predict(result, x)
	return RoundToThousandth(yPred - margin), RoundToThousandth(yPred + margin)
}

// GenerateForecasts прогноз на daysAhead дней после конца периода
func GenerateForecasts(result *RegressionResult, daysAhead int, confidenceLevel float64) []ForecastPoint {
	forecasts := make([]ForecastPoint, daysAhead)

	maxX := 0.0
	for _, p := range result.DataPoints {
		maxX = math.Max(maxX, p.X)
	}

	for i := range forecasts {
		x := maxX + float64(i+1)
		lower, upper := CalculateConfidenceInterval(result, x, confidenceLevel)

		forecasts[i] = ForecastPoint{
			Date:    result.PeriodEnd.AddDate(0, 0, i+1),
			Value:   Predict(result, x),
			CILower: lower,
			CIUpper: upper,
		}
	}
	return forecasts
}
