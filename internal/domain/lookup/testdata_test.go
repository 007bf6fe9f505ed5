package lookup

import (
	"strings"
	"testing"
)

const conditionsCSV = "\ufeffCHRONIC CONDITIONS,ICD-Code,ICD-Code Description\n" +
	"Asthma,J45.0,Predominantly allergic asthma\n" +
	"Asthma,J45.9,\"Asthma, unspecified\"\n" +
	"Hypertension,I10,Essential (primary) hypertension\n" +
	",X00,orphan code\n" +
	"Diabetes Mellitus Type 2,,missing code\n"

const medicinesCSV = "CHRONIC DISEASE LIST CONDITION,\"CDA FOR CORE, PRIORITY AND SAVER PLANS\",\"CDA FOR EXECUTIVE AND COMPREHENSIVE PLANS\",MEDICINE CLASS,ACTIVE INGREDIENT,MEDICINE NAME AND STRENGTH\n" +
	"Asthma,R163.00,R204.00,Inhaled corticosteroids,Budesonide,Pulmicort 200mcg\n" +
	"Asthma,R98.00,,Bronchodilators,Salbutamol,Ventolin 100mcg\n" +
	"asthma,R120.00,R150.00,Inhaled corticosteroids,Fluticasone,Flixotide 125mcg\n" +
	"Hypertension,R75.50,R90.00,ACE inhibitors,Enalapril,Renitec 10mg\n" +
	",R1.00,R2.00,Orphans,None,Nothing 1mg\n"

const basketCSV = "CONDITION,DIAGNOSTIC BASKET,DIAGNOSTIC BASKET,DIAGNOSTIC BASKET,ONGOING MANAGEMENT BASKET,ONGOING MANAGEMENT BASKET,ONGOING MANAGEMENT BASKET,\n" +
	",Description,Code,Covered,Description,Code,Covered,Specialists\n" +
	"Asthma,Peak flow,1234,1,Spirometry,4567,2,Pulmonologist\n" +
	",Chest x-ray,3445,1,Spirometry,4567,3,\n" +
	",Peak flow,1234,2,Consultation,0190,4 per year,\n" +
	",,,,,,,\n" +
	",,,,Nebuliser review, ,1,\n" +
	"Hypertension,ECG,1232,1,Consultation,0190,2,Cardiologist\n"

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := LoadCSV(
		strings.NewReader(conditionsCSV),
		strings.NewReader(medicinesCSV),
		strings.NewReader(basketCSV),
	)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	return s
}
