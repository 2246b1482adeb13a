package diagnosis

// CommonSymptoms is the suggested vocabulary offered to users. Custom labels are allowed too.
var CommonSymptoms = []string{
	"Headache",
	"Fever",
	"Cough",
	"Fatigue",
	"Nausea",
	"Sore Throat",
	"Body Aches",
	"Dizziness",
	"Chills",
	"Shortness of Breath",
	"Runny Nose",
	"Loss of Appetite",
	"Chest Pain",
	"Stomach Pain",
	"Joint Pain",
}
