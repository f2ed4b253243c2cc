// Package testkit generates deterministic synthetic CKD patient tables
// for tests and demo runs. The generated data carries the structure the
// analyzers look for: class-shifted lab values, a strong negative
// creatinine/GFR coupling, and correlated blood-pressure and glycemic
// pairs.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"renastat/domain/core"
	"renastat/domain/dataset"
)

// GeneratorConfig configures the synthetic patient generator
type GeneratorConfig struct {
	Patients    int     `json:"patients"`
	DiseaseRate float64 `json:"disease_rate"`
	MissingRate float64 `json:"missing_rate"`
	Seed        int64   `json:"seed"`
}

// DefaultConfig returns sensible defaults for demo data
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Patients:    500,
		DiseaseRate: 0.35,
		MissingRate: 0.03,
		Seed:        42,
	}
}

// Generator produces synthetic CKD patient datasets
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator; the same config yields the same data
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds one complete patient table
func (g *Generator) Generate() (*dataset.Dataset, error) {
	if g.config.Patients <= 0 {
		return nil, fmt.Errorf("patient count must be positive, got %d", g.config.Patients)
	}

	schema := dataset.DefaultSchema()
	order := []core.VariableKey{schema.Identifier}
	order = append(order, schema.CorrelationVars...)
	order = append(order, dataset.VarGender, dataset.VarEthnicity)
	order = append(order, schema.BinaryRiskFactors...)
	order = append(order, schema.Outcome)

	records := make([]map[core.VariableKey]float64, 0, g.config.Patients)
	for i := 0; i < g.config.Patients; i++ {
		diseased := g.rng.Float64() < g.config.DiseaseRate
		records = append(records, g.patient(i+1, diseased))
	}

	name := fmt.Sprintf("synthetic-ckd-%d", g.config.Seed)
	return dataset.New(name, order, records), nil
}

func (g *Generator) patient(id int, diseased bool) map[core.VariableKey]float64 {
	record := make(map[core.VariableKey]float64, 24)
	record[dataset.VarPatientID] = float64(id)

	age := g.norm(52, 14)
	gfr := g.norm(90, 15)
	if diseased {
		age = g.norm(61, 12)
		gfr = g.norm(44, 16)
	}
	age = clamp(age, 18, 90)
	gfr = clamp(gfr, 5, 120)

	// creatinine and BUN track the loss of filtration rate
	creatinine := clamp(1.0+(90-gfr)*0.032+g.norm(0, 0.15), 0.4, 12)
	bun := clamp(14+(90-gfr)*0.28+g.norm(0, 3.5), 5, 90)

	systolic := g.norm(124, 14)
	fbs := g.norm(99, 18)
	hemoglobin := g.norm(14.1, 1.2)
	acr := clamp(g.norm(22, 16), 0, 200)
	if diseased {
		systolic = g.norm(136, 16)
		fbs = g.norm(116, 26)
		hemoglobin = g.norm(11.6, 1.5)
		acr = clamp(g.norm(320, 210), 0, 2000)
	}
	diastolic := clamp(0.55*systolic+8+g.norm(0, 7), 50, 130)
	hba1c := clamp(2.6+fbs*0.031+g.norm(0, 0.4), 4, 14)

	record[dataset.VarAge] = math.Round(age)
	record[dataset.VarBMI] = clamp(g.norm(27.5, 5), 15, 50)
	record[dataset.VarSystolicBP] = clamp(systolic, 85, 210)
	record[dataset.VarDiastolicBP] = diastolic
	record[dataset.VarFastingBloodSugar] = clamp(fbs, 60, 300)
	record[dataset.VarHbA1c] = hba1c
	record[dataset.VarSerumCreatinine] = creatinine
	record[dataset.VarBUNLevels] = bun
	record[dataset.VarGFR] = gfr
	record[dataset.VarACR] = acr
	record[dataset.VarSodium] = clamp(g.norm(140, 2.8), 125, 155)
	record[dataset.VarPotassium] = clamp(g.norm(4.3, 0.5), 2.8, 7)
	record[dataset.VarHemoglobin] = clamp(hemoglobin, 6, 19)

	record[dataset.VarGender] = float64(g.rng.Intn(2))
	record[dataset.VarEthnicity] = float64(g.rng.Intn(4))

	record[dataset.VarSmoking] = g.bernoulli(0.22, 0.32, diseased)
	record[dataset.VarFamilyHistoryKidney] = g.bernoulli(0.10, 0.28, diseased)
	record[dataset.VarFamilyHistoryHTN] = g.bernoulli(0.30, 0.45, diseased)
	record[dataset.VarFamilyHistoryDiabetes] = g.bernoulli(0.25, 0.40, diseased)
	record[dataset.VarEdema] = g.bernoulli(0.05, 0.30, diseased)
	record[dataset.VarACEInhibitors] = g.bernoulli(0.15, 0.50, diseased)
	record[dataset.VarDiuretics] = g.bernoulli(0.10, 0.40, diseased)

	if diseased {
		record[dataset.VarDiagnosis] = 1
	} else {
		record[dataset.VarDiagnosis] = 0
	}

	g.injectMissing(record)
	return record
}

// injectMissing blanks continuous lab cells at the configured rate.
// Identifier, outcome and coded columns stay complete.
func (g *Generator) injectMissing(record map[core.VariableKey]float64) {
	if g.config.MissingRate <= 0 {
		return
	}
	for _, key := range dataset.DefaultSchema().CorrelationVars {
		if g.rng.Float64() < g.config.MissingRate {
			record[key] = dataset.Missing
		}
	}
}

func (g *Generator) norm(mean, sd float64) float64 {
	return mean + g.rng.NormFloat64()*sd
}

func (g *Generator) bernoulli(healthyP, diseasedP float64, diseased bool) float64 {
	p := healthyP
	if diseased {
		p = diseasedP
	}
	if g.rng.Float64() < p {
		return 1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
