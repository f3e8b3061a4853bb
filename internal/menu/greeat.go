package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultGreeatBaseURL = "https://api-greeat.52g.gs"

// GreeatRepository fetches the day's menus from the Gre:eat cafeteria API.
type GreeatRepository struct {
	baseURL string
	http    *http.Client
}

// NewGreeatRepository builds a repository against the public Gre:eat API.
func NewGreeatRepository() *GreeatRepository {
	return &GreeatRepository{
		baseURL: defaultGreeatBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewGreeatRepositoryForURL is for tests pointing at a stub server.
func NewGreeatRepositoryForURL(baseURL string) *GreeatRepository {
	r := NewGreeatRepository()
	r.baseURL = baseURL
	return r
}

type greeatMeal struct {
	MainOfG  string      `json:"main_of_g"`
	MainOfR  string      `json:"main_of_r"`
	MainOfE  string      `json:"main_of_e"`
	CalorieG json.Number `json:"calorie_g"`
	CalorieR json.Number `json:"calorie_r"`
	CalorieE json.Number `json:"calorie_e"`
	ImageG   string      `json:"image_url_g"`
	ImageR   string      `json:"image_url_r"`
	ImageE   string      `json:"image_url_e"`
	GroupG   string      `json:"group_of_g"`
	GroupR   string      `json:"group_of_r"`
	GroupE   string      `json:"group_of_e"`
}

type greeatQuantities struct {
	G int `json:"g"`
	R int `json:"r"`
	E int `json:"e"`
}

type greeatStatus struct {
	Planned greeatQuantities `json:"number_of_meals_by_manager"`
	Served  greeatQuantities `json:"number_of_meals"`
}

// FetchMenus returns the G, R and E corner menus for the given date
// (YYYYMMDD).
func (r *GreeatRepository) FetchMenus(ctx context.Context, date string) ([]Menu, error) {
	var mealEnvelope struct {
		Data struct {
			Meal greeatMeal `json:"meal"`
		} `json:"data"`
	}
	if err := r.get(ctx, fmt.Sprintf("%s/meals/%s", r.baseURL, date), &mealEnvelope); err != nil {
		return nil, fmt.Errorf("fetch meals: %w", err)
	}

	var statusEnvelope struct {
		Data struct {
			Status greeatStatus `json:"daily_meal_status"`
		} `json:"data"`
	}
	if err := r.get(ctx, fmt.Sprintf("%s/status/date/%s", r.baseURL, date), &statusEnvelope); err != nil {
		return nil, fmt.Errorf("fetch meal status: %w", err)
	}

	meal := mealEnvelope.Data.Meal
	status := statusEnvelope.Data.Status
	return []Menu{
		{
			CornerID:        "G",
			CornerName:      ":large_yellow_circle: G",
			Name:            meal.MainOfG,
			Category:        meal.GroupG,
			Kcal:            meal.CalorieG.String(),
			MaxQuantity:     status.Planned.G,
			CurrentQuantity: status.Served.G,
			ImageURL:        meal.ImageG,
		},
		{
			CornerID:        "R",
			CornerName:      ":large_orange_circle: R",
			Name:            meal.MainOfR,
			Category:        meal.GroupR,
			Kcal:            meal.CalorieR.String(),
			MaxQuantity:     status.Planned.R,
			CurrentQuantity: status.Served.R,
			ImageURL:        meal.ImageR,
		},
		{
			CornerID:        "E",
			CornerName:      ":large_green_circle: E",
			Name:            meal.MainOfE,
			Category:        meal.GroupE,
			Kcal:            meal.CalorieE.String(),
			MaxQuantity:     status.Planned.E,
			CurrentQuantity: status.Served.E,
			ImageURL:        meal.ImageE,
		},
	}, nil
}

func (r *GreeatRepository) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", res.StatusCode, url)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
