package store

// SeedData returns the fixture master-data set a fresh namespace starts
// with on the in-memory backend. Remote tenants are provisioned with the
// same set out of band.
func SeedData() map[string][]Record {
	return map[string][]Record{
		CollectionJobPositions: {
			{ID: "P01", Fields: map[string]any{"englishName": "Loom Operator", "localName": "စက်မောင်းသူ / ယက္ကန်းသမား", "notes": "Largest group on the floor"}},
			{ID: "P02", Fields: map[string]any{"englishName": "Yarn Spinning/Winding", "localName": "ချည်ငင်ခြင်း / ချည်လုံးခြင်း", "notes": "Raw material preparation"}},
			{ID: "P03", Fields: map[string]any{"englishName": "Dyeing", "localName": "ဆေးဆိုးခြင်း / ဆေးဆိုးသမား", "notes": ""}},
			{ID: "P04", Fields: map[string]any{"englishName": "Mechanic", "localName": "စက်ပြင်ဆရာ", "notes": "Loom maintenance"}},
			{ID: "P05", Fields: map[string]any{"englishName": "Quality Control (QC)", "localName": "အရည်အသွေး စစ်ဆေးသူ", "notes": "Records defect quantities"}},
			{ID: "P06", Fields: map[string]any{"englishName": "Packaging", "localName": "ထုပ်ပိုးခြင်း", "notes": "Final step before shipment"}},
		},
		CollectionWorkers: {
			{ID: "W001", Fields: map[string]any{"name": "Aung Aung", "positionId": "P01"}},
			{ID: "W002", Fields: map[string]any{"name": "Maung Maung", "positionId": "P01"}},
			{ID: "W003", Fields: map[string]any{"name": "Hla Hla", "positionId": "P02"}},
			{ID: "W004", Fields: map[string]any{"name": "Mya Mya", "positionId": "P03"}},
			{ID: "W005", Fields: map[string]any{"name": "Kyaw Kyaw", "positionId": "P04"}},
			{ID: "W006", Fields: map[string]any{"name": "Su Su", "positionId": "P05"}},
		},
		CollectionRateCard: {
			{ID: "T01", Fields: map[string]any{"taskName": "Weaving - Pattern A", "unit": "meter", "rate": 150.0}},
			{ID: "T02", Fields: map[string]any{"taskName": "Weaving - Pattern B", "unit": "meter", "rate": 180.0}},
			{ID: "T03", Fields: map[string]any{"taskName": "Spinning - Cotton", "unit": "kg", "rate": 500.0}},
			{ID: "T04", Fields: map[string]any{"taskName": "Dyeing - Red", "unit": "batch", "rate": 10000.0}},
			{ID: "T05", Fields: map[string]any{"taskName": "Packaging", "unit": "piece", "rate": 20.0}},
		},
	}
}
