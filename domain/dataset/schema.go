package dataset

import "renastat/domain/core"

// Variable keys for the chronic kidney disease patient table. The lists
// below are configuration, not logic: the correlation set (13 lab and
// physiological variables) and the key clinical set (9 variables) overlap
// but are deliberately kept as separate named lists.
const (
	VarPatientID core.VariableKey = "PatientID"
	VarDiagnosis core.VariableKey = "Diagnosis"

	VarAge               core.VariableKey = "Age"
	VarBMI               core.VariableKey = "BMI"
	VarSystolicBP        core.VariableKey = "SystolicBP"
	VarDiastolicBP       core.VariableKey = "DiastolicBP"
	VarFastingBloodSugar core.VariableKey = "FastingBloodSugar"
	VarHbA1c             core.VariableKey = "HbA1c"
	VarSerumCreatinine   core.VariableKey = "SerumCreatinine"
	VarBUNLevels         core.VariableKey = "BUNLevels"
	VarGFR               core.VariableKey = "GFR"
	VarACR               core.VariableKey = "ACR"
	VarSodium            core.VariableKey = "SerumElectrolytesSodium"
	VarPotassium         core.VariableKey = "SerumElectrolytesPotassium"
	VarHemoglobin        core.VariableKey = "HemoglobinLevels"

	VarGender    core.VariableKey = "Gender"
	VarEthnicity core.VariableKey = "Ethnicity"

	VarSmoking               core.VariableKey = "Smoking"
	VarFamilyHistoryKidney   core.VariableKey = "FamilyHistoryKidneyDisease"
	VarFamilyHistoryHTN      core.VariableKey = "FamilyHistoryHypertension"
	VarFamilyHistoryDiabetes core.VariableKey = "FamilyHistoryDiabetes"
	VarEdema                 core.VariableKey = "Edema"
	VarACEInhibitors         core.VariableKey = "ACEInhibitors"
	VarDiuretics             core.VariableKey = "Diuretics"
)

// CategoricalSpec declares a coded categorical variable. Codes are
// contiguous integers starting at 0 and match Labels positionally.
type CategoricalSpec struct {
	Key    core.VariableKey
	Labels []string
}

// Schema fixes the analyzable structure of the patient table
type Schema struct {
	Identifier core.VariableKey
	Outcome    core.VariableKey

	// CorrelationVars is the fixed 13-variable continuous set used for the
	// correlation matrix (complete-case across the whole set).
	CorrelationVars []core.VariableKey

	// KeyVars is the ordered 9-variable clinical set used for group
	// comparison and outlier detection.
	KeyVars []core.VariableKey

	// PlotVars is the 5-variable subset rendered as per-class
	// distribution and box plots.
	PlotVars []core.VariableKey

	Categorical       []CategoricalSpec
	BinaryRiskFactors []core.VariableKey
}

// DefaultSchema returns the CKD analysis schema
func DefaultSchema() Schema {
	return Schema{
		Identifier: VarPatientID,
		Outcome:    VarDiagnosis,
		CorrelationVars: []core.VariableKey{
			VarAge, VarBMI, VarSystolicBP, VarDiastolicBP,
			VarFastingBloodSugar, VarHbA1c, VarSerumCreatinine,
			VarBUNLevels, VarGFR, VarACR, VarSodium, VarPotassium,
			VarHemoglobin,
		},
		KeyVars: []core.VariableKey{
			VarAge, VarBMI, VarSystolicBP, VarFastingBloodSugar,
			VarHbA1c, VarSerumCreatinine, VarBUNLevels, VarGFR,
			VarHemoglobin,
		},
		PlotVars: []core.VariableKey{
			VarAge, VarGFR, VarSerumCreatinine, VarSystolicBP, VarHbA1c,
		},
		Categorical: []CategoricalSpec{
			{Key: VarGender, Labels: []string{"Male", "Female"}},
			{Key: VarEthnicity, Labels: []string{"Caucasian", "African American", "Asian", "Other"}},
		},
		BinaryRiskFactors: []core.VariableKey{
			VarSmoking, VarFamilyHistoryKidney, VarFamilyHistoryHTN,
			VarFamilyHistoryDiabetes, VarEdema, VarACEInhibitors,
			VarDiuretics,
		},
	}
}
