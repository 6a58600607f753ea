package catalog

// Demo seed data. Kept deliberately small; a production deployment would load
// these from the services registry instead.

var seedServices = []Service{
	{ID: "SVC001", Name: "Healthcare Subsidy Program", Category: "Healthcare", Eligibility: "Low income families", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC002", Name: "Education Grant Application", Category: "Education", Eligibility: "Students under 25", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC003", Name: "Passport Renewal Service", Category: "Identification", Eligibility: "Citizens 18+", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC004", Name: "Housing Assistance Program", Category: "Housing", Eligibility: "Low to middle income", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC005", Name: "Unemployment Benefits", Category: "Employment", Eligibility: "Recently unemployed", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC006", Name: "Senior Citizen Support", Category: "Social Services", Eligibility: "Citizens 60+", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC007", Name: "Business License Application", Category: "Business", Eligibility: "Business owners", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC008", Name: "Child Care Subsidy", Category: "Family Services", Eligibility: "Families with children", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC009", Name: "Disability Support Services", Category: "Healthcare", Eligibility: "Persons with disabilities", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC010", Name: "Environmental Grant", Category: "Environment", Eligibility: "Organizations", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC011", Name: "Skill Training Program", Category: "Education", Eligibility: "Unemployed adults", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
	{ID: "SVC012", Name: "Tax Filing Assistance", Category: "Financial", Eligibility: "Taxpayers", Availability: Availability{Status: StatusActive, NextAvailable: "N/A"}},
}

var seedProducts = []Product{
	{SKU: "SKU001", Name: "Classic Oxford Shirt", Category: "Tops", Price: 1499, InStock: true},
	{SKU: "SKU002", Name: "Linen Summer Shirt", Category: "Tops", Price: 1799, InStock: true},
	{SKU: "SKU003", Name: "Slim Fit Jeans", Category: "Bottoms", Price: 2299, InStock: true},
	{SKU: "SKU004", Name: "Pleated Chinos", Category: "Bottoms", Price: 1999, InStock: true},
	{SKU: "SKU005", Name: "Leather Derby Shoes", Category: "Footwear", Price: 3499, InStock: true},
	{SKU: "SKU006", Name: "Canvas Sneakers", Category: "Footwear", Price: 1899, InStock: true},
	{SKU: "SKU007", Name: "Floral Wrap Dress", Category: "Dresses", Price: 2599, InStock: true},
	{SKU: "SKU008", Name: "A-Line Midi Dress", Category: "Dresses", Price: 2899, InStock: true},
	{SKU: "SKU009", Name: "Woven Leather Belt", Category: "Accessories", Price: 899, InStock: true},
	{SKU: "SKU010", Name: "Silk Pocket Square", Category: "Accessories", Price: 599, InStock: false},
}

var seedCitizens = []Citizen{
	{ID: "CIT001", Name: "Priya Sharma", Tier: "Gold", Points: 2500, ServiceHistory: []string{"SVC001", "SVC005"}, Income: 300000, Age: 35, Channel: "web"},
	{ID: "CIT002", Name: "Rahul Verma", Tier: "Silver", Points: 1200, ServiceHistory: []string{"SVC003", "SVC007"}, Income: 500000, Age: 42, Channel: "phone"},
	{ID: "CIT003", Name: "Anita Desai", Tier: "Platinum", Points: 5000, ServiceHistory: []string{"SVC004", "SVC008", "SVC010"}, Income: 200000, Age: 28, Channel: "whatsapp"},
	{ID: "CIT004", Name: "Vikram Singh", Tier: "Bronze", Points: 500, ServiceHistory: []string{"SVC002"}, Income: 600000, Age: 55, Channel: "kiosk"},
	{ID: "CIT005", Name: "Sneha Patel", Tier: "Gold", Points: 3200, ServiceHistory: []string{"SVC006", "SVC009"}, Income: 250000, Age: 31, Channel: "web"},
	{ID: "CIT006", Name: "Arjun Mehta", Tier: "Silver", Points: 1800, ServiceHistory: []string{"SVC001", "SVC002", "SVC009"}, Income: 400000, Age: 38, Channel: "phone"},
	{ID: "CIT007", Name: "Kavya Reddy", Tier: "Gold", Points: 2900, ServiceHistory: []string{"SVC004", "SVC010"}, Income: 350000, Age: 29, Channel: "web"},
	{ID: "CIT008", Name: "Rohan Gupta", Tier: "Platinum", Points: 6500, ServiceHistory: []string{"SVC003", "SVC005", "SVC007"}, Income: 150000, Age: 45, Channel: "whatsapp"},
	{ID: "CIT009", Name: "Meera Iyer", Tier: "Bronze", Points: 300, ServiceHistory: nil, Income: 700000, Age: 62, Channel: "kiosk"},
	{ID: "CIT010", Name: "Siddharth Joshi", Tier: "Silver", Points: 1500, ServiceHistory: []string{"SVC006", "SVC012"}, Income: 450000, Age: 33, Channel: "web"},
}

var seedBenefits = map[string]Benefit{
	"healthcare_subsidy":    {MaxIncome: 400000, MinAge: 0, Description: "Healthcare cost subsidy"},
	"education_grant":       {MaxIncome: 500000, MinAge: 18, Description: "Education funding support"},
	"housing_assistance":    {MaxIncome: 600000, MinAge: 21, Description: "Housing support program"},
	"unemployment_benefits": {MaxIncome: 300000, MinAge: 18, Description: "Job loss financial aid"},
	"senior_support":        {MaxIncome: 1000000, MinAge: 60, Description: "Elderly care services"},
	"disability_support":    {MaxIncome: 800000, MinAge: 0, Description: "Disability assistance"},
}
