package ledger

import (
	"github.com/ukydev/fleet-booking/internal/models"
)

// FuelResult is the outcome of a fuel-basis derivation.
type FuelResult struct {
	Quantity float64
	Amount   float64
}

// FuelAmount derives the fuel quantity and amount of a fuel-basis payment. When both
// distance and a positive mileage are given the quantity is distance / mileage
// rounded to 2 places; otherwise the given quantity is used as is.
func FuelAmount(distanceKm, mileage, fuelQuantity, fuelRate *float64) (FuelResult, error) {
	var qty float64
	switch {
	case distanceKm != nil && mileage != nil && *mileage > 0:
		qty = out(dec(*distanceKm).Div(dec(*mileage)))
	case fuelQuantity != nil:
		qty = *fuelQuantity
	}

	if fuelRate == nil || *fuelRate <= 0 || qty <= 0 {
		return FuelResult{Quantity: qty}, ErrFuelBasisIncomplete
	}
	return FuelResult{
		Quantity: qty,
		Amount:   out(dec(qty).Mul(dec(*fuelRate))),
	}, nil
}

// ApplyPayment fills the derived fields of a driver payment from a request. For
// fuel-basis entries the amount is always derived; for flat modes it is copied.
func ApplyPayment(p *models.DriverPayment, req models.DriverPaymentRequest) error {
	p.Mode = req.Mode
	p.Description = req.Description
	p.FuelQuantity, p.FuelRate, p.DistanceKm, p.Mileage, p.ComputedAmount = nil, nil, nil, nil, nil

	if req.Mode != models.ModeFuelBasis {
		p.Amount = Round2(req.Amount)
		return nil
	}

	res, err := FuelAmount(req.DistanceKm, req.Mileage, req.FuelQuantity, req.FuelRate)
	if err != nil {
		p.Amount = 0
		return err
	}
	qty := res.Quantity
	amount := res.Amount
	p.FuelQuantity = &qty
	p.FuelRate = req.FuelRate
	p.DistanceKm = req.DistanceKm
	p.Mileage = req.Mileage
	p.ComputedAmount = &amount
	p.Amount = amount
	return nil
}
