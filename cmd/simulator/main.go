package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-booking/internal/models"
)

// City is a pickup or drop point for simulated trips.
type City struct {
	Name string
	Lat  float64
	Lon  float64
}

var cities = []City{
	{"Mumbai", 19.0760, 72.8777},
	{"Pune", 18.5204, 73.8567},
	{"Nashik", 19.9975, 73.7898},
	{"Delhi", 28.7041, 77.1025},
	{"Jaipur", 26.9124, 75.7873},
	{"Agra", 27.1767, 78.0081},
	{"Bengaluru", 12.9716, 77.5946},
	{"Mysuru", 12.2958, 76.6394},
	{"Chennai", 13.0827, 80.2707},
	{"Hyderabad", 17.3850, 78.4867},
	{"Ahmedabad", 23.0225, 72.5714},
	{"Goa", 15.2993, 74.1240},
}

// Road distance is approximated from the great-circle distance.
const roadFactor = 1.25

const fuelRate = 95.5 // per litre

var firstNames = []string{"Ravi", "Suresh", "Imran", "Gurpreet", "Manoj", "Anil", "Deepak", "Joseph"}

func haversineKm(a, b City) float64 {
	R := 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return R * c
}

func roadKm(a, b City) float64 {
	return math.Round(haversineKm(a, b)*roadFactor*10) / 10
}

// pickRoute returns two distinct cities.
func pickRoute(rng *rand.Rand) (City, City) {
	from := cities[rng.Intn(len(cities))]
	for {
		to := cities[rng.Intn(len(cities))]
		if to.Name != from.Name {
			return from, to
		}
	}
}

// apiClient talks to the booking API with an optional bearer token.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{baseURL: baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}
}

// do sends body as JSON and decodes a 2xx response into out when out is non-nil.
func (c *apiClient) do(method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		r = bytes.NewBuffer(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *apiClient) login(email, password string) error {
	var resp models.LoginResponse
	if err := c.do(http.MethodPost, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func createDriver(c *apiClient, rng *rand.Rand, i int) (string, error) {
	driver := models.Driver{
		Name:          fmt.Sprintf("%s %d", firstNames[rng.Intn(len(firstNames))], i+1),
		Phone:         fmt.Sprintf("98%08d", rng.Intn(100000000)),
		LicenseNumber: fmt.Sprintf("MH12-%07d", rng.Intn(10000000)),
		Status:        "active",
	}
	var created models.Driver
	if err := c.do(http.MethodPost, "/drivers", driver, &created); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"driver_id": created.ID.Hex(), "name": created.Name}).Info("Created driver")
	return created.ID.Hex(), nil
}

func createVehicle(c *apiClient, rng *rand.Rand, i int) (string, float64, error) {
	makes := []struct {
		make, model string
		kmpl        float64
	}{
		{"Toyota", "Innova Crysta", 11},
		{"Maruti", "Ertiga", 17},
		{"Mahindra", "XUV700", 13},
		{"Hyundai", "Aura", 19},
	}
	m := makes[rng.Intn(len(makes))]
	vehicle := models.Vehicle{
		RegistrationNumber: fmt.Sprintf("MH12AB%04d", i+1),
		Make:               m.make,
		Model:              m.model,
		Year:               2019 + rng.Intn(6),
		FuelType:           "diesel",
		Mileage:            m.kmpl,
		Status:             "active",
	}
	var created models.Vehicle
	if err := c.do(http.MethodPost, "/vehicles", vehicle, &created); err != nil {
		return "", 0, err
	}
	log.WithFields(log.Fields{"vehicle_id": created.ID.Hex(), "make": m.make, "model": m.model}).Info("Created vehicle")
	return created.ID.Hex(), m.kmpl, nil
}

// --- Trip lifecycle ---

// TripState tracks one simulated booking as it moves through its statuses.
type TripState struct {
	BookingID  string
	DriverID   string
	From, To   City
	DistanceKm float64
	Mileage    float64
	Total      float64
	Advance    float64
	Status     models.BookingStatus
}

func createTrip(c *apiClient, rng *rand.Rand, driverID, vehicleID string, mileage float64, start time.Time) (*TripState, error) {
	from, to := pickRoute(rng)
	distance := roadKm(from, to)
	tariff := float64(11 + rng.Intn(6))
	total := math.Round(distance * tariff)
	advance := math.Round(total * 0.2)

	req := models.CreateBookingRequest{
		CustomerName:    fmt.Sprintf("Customer %d", rng.Intn(1000)),
		CustomerPhone:   fmt.Sprintf("97%08d", rng.Intn(100000000)),
		BookingSource:   []string{"company", "travel-agency", "individual"}[rng.Intn(3)],
		DriverID:        driverID,
		VehicleID:       vehicleID,
		PickupLocation:  from.Name,
		DropLocation:    to.Name,
		JourneyType:     "outstation",
		StartDate:       start,
		EndDate:         start.Add(time.Duration(distance/50*float64(time.Hour)) + 2*time.Hour),
		TariffRate:      tariff,
		TotalAmount:     total,
		AdvanceReceived: advance,
	}
	var created models.Booking
	if err := c.do(http.MethodPost, "/bookings", req, &created); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"booking_id":  created.ID.Hex(),
		"route":       from.Name + " -> " + to.Name,
		"distance_km": distance,
		"total":       total,
	}).Info("Created booking")

	return &TripState{
		BookingID:  created.ID.Hex(),
		DriverID:   driverID,
		From:       from,
		To:         to,
		DistanceKm: distance,
		Mileage:    mileage,
		Total:      total,
		Advance:    advance,
		Status:     created.Status,
	}, nil
}

// advanceTrip moves a trip one step: booked trips start and pick up a toll,
// ongoing trips complete, collect the balance and pay the driver for fuel.
// It reports whether the trip is finished.
func advanceTrip(c *apiClient, s *TripState) (bool, error) {
	base := "/bookings/" + s.BookingID
	switch s.Status {
	case models.StatusBooked:
		if err := c.do(http.MethodPut, base+"/status", models.StatusRequest{Status: models.StatusOngoing}, nil); err != nil {
			return false, err
		}
		toll := models.ExpenseRequest{Type: "toll", Amount: math.Round(s.DistanceKm * 1.8), Description: s.From.Name + " expressway"}
		if err := c.do(http.MethodPost, base+"/expenses", toll, nil); err != nil {
			return false, err
		}
		s.Status = models.StatusOngoing
		return false, nil

	case models.StatusOngoing:
		if err := c.do(http.MethodPut, base+"/status", models.StatusRequest{Status: models.StatusCompleted}, nil); err != nil {
			return false, err
		}
		if balance := s.Total - s.Advance; balance > 0 {
			payment := models.PaymentRequest{Amount: balance, Comments: "Collected on drop", PaidOn: time.Now()}
			if err := c.do(http.MethodPost, base+"/payments", payment, nil); err != nil {
				return false, err
			}
		}
		distance, mileage, rate := s.DistanceKm, s.Mileage, fuelRate
		fuel := models.DriverPaymentRequest{
			Mode:        models.ModeFuelBasis,
			DistanceKm:  &distance,
			Mileage:     &mileage,
			FuelRate:    &rate,
			Description: "Fuel for " + s.From.Name + " -> " + s.To.Name,
		}
		if err := c.do(http.MethodPost, base+"/driver-payments", fuel, nil); err != nil {
			return false, err
		}
		s.Status = models.StatusCompleted
		log.WithFields(log.Fields{"booking_id": s.BookingID, "driver_id": s.DriverID}).Info("Trip completed")
		return true, nil
	}
	return true, nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			return n
		}
	}
	return def
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}
	fleetSize := envInt("FLEET_SIZE", 5)
	interval := time.Duration(envInt("SIM_TICK_SECONDS", 2)) * time.Second

	c := newAPIClient(apiURL, os.Getenv("SIM_AUTH_TOKEN"))
	if email := os.Getenv("SIM_EMAIL"); c.token == "" && email != "" {
		if err := c.login(email, os.Getenv("SIM_PASSWORD")); err != nil {
			log.WithError(err).Fatal("Login failed")
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"interval":   interval,
	}).Info("Starting booking simulation")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	trips := make([]*TripState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		driverID, err := createDriver(c, rng, i)
		if err != nil {
			log.WithError(err).Error("Failed to create driver")
			continue
		}
		vehicleID, mileage, err := createVehicle(c, rng, i)
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		trip, err := createTrip(c, rng, driverID, vehicleID, mileage, time.Now().Add(time.Duration(i)*time.Hour))
		if err != nil {
			log.WithError(err).Error("Failed to create booking")
			continue
		}
		trips = append(trips, trip)
	}

	if len(trips) == 0 {
		log.Error("No bookings created. Ensure the credentials are valid and the API is reachable. Exiting.")
		return
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for len(trips) > 0 {
		<-tick.C
		open := trips[:0]
		for _, s := range trips {
			done, err := advanceTrip(c, s)
			if err != nil {
				log.WithError(err).WithField("booking_id", s.BookingID).Error("Failed to advance trip")
				continue
			}
			if !done {
				open = append(open, s)
			}
		}
		trips = open
	}
	log.Info("All simulated trips completed")
}
