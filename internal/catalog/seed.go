package catalog

// seedSkills returns the built-in O-/A-Level skill set used when no
// catalog file has been loaded. Topic-level granularity: each skill is
// tracked independently by the mastery engine.
func seedSkills() []Skill {
	return []Skill{
		// Mathematics
		{ID: "math-quadratic-equations", Name: "Quadratic Equations", Subject: SubjectMathematics, Topic: "Algebra"},
		{ID: "math-simultaneous-equations", Name: "Simultaneous Equations", Subject: SubjectMathematics, Topic: "Algebra"},
		{ID: "math-indices-surds", Name: "Indices and Surds", Subject: SubjectMathematics, Topic: "Algebra"},
		{ID: "math-differentiation", Name: "Differentiation", Subject: SubjectMathematics, Topic: "Calculus"},
		{ID: "math-integration", Name: "Integration", Subject: SubjectMathematics, Topic: "Calculus"},
		{ID: "math-trigonometric-ratios", Name: "Trigonometric Ratios", Subject: SubjectMathematics, Topic: "Trigonometry"},
		{ID: "math-circle-theorems", Name: "Circle Theorems", Subject: SubjectMathematics, Topic: "Geometry"},
		{ID: "math-vectors", Name: "Vectors", Subject: SubjectMathematics, Topic: "Geometry"},
		{ID: "math-probability", Name: "Probability", Subject: SubjectMathematics, Topic: "Statistics"},
		{ID: "math-normal-distribution", Name: "Normal Distribution", Subject: SubjectMathematics, Topic: "Statistics"},

		// Physics
		{ID: "phys-kinematics", Name: "Kinematics", Subject: SubjectPhysics, Topic: "Mechanics"},
		{ID: "phys-newtons-laws", Name: "Newton's Laws of Motion", Subject: SubjectPhysics, Topic: "Mechanics"},
		{ID: "phys-circuits", Name: "DC Circuits", Subject: SubjectPhysics, Topic: "Electricity"},
		{ID: "phys-electromagnetism", Name: "Electromagnetism", Subject: SubjectPhysics, Topic: "Electricity"},
		{ID: "phys-waves", Name: "Wave Properties", Subject: SubjectPhysics, Topic: "Waves"},
		{ID: "phys-radioactivity", Name: "Radioactivity", Subject: SubjectPhysics, Topic: "Nuclear Physics"},

		// Chemistry
		{ID: "chem-mole-calculations", Name: "Mole Calculations", Subject: SubjectChemistry, Topic: "Quantitative Chemistry"},
		{ID: "chem-bonding", Name: "Chemical Bonding", Subject: SubjectChemistry, Topic: "Structure and Bonding"},
		{ID: "chem-energetics", Name: "Energetics", Subject: SubjectChemistry, Topic: "Physical Chemistry"},
		{ID: "chem-organic-mechanisms", Name: "Organic Mechanisms", Subject: SubjectChemistry, Topic: "Organic Chemistry"},
		{ID: "chem-equilibria", Name: "Chemical Equilibria", Subject: SubjectChemistry, Topic: "Physical Chemistry"},

		// Biology
		{ID: "bio-cell-structure", Name: "Cell Structure", Subject: SubjectBiology, Topic: "Cells"},
		{ID: "bio-enzymes", Name: "Enzymes", Subject: SubjectBiology, Topic: "Biological Molecules"},
		{ID: "bio-genetics", Name: "Genetics and Inheritance", Subject: SubjectBiology, Topic: "Genetics"},
		{ID: "bio-photosynthesis", Name: "Photosynthesis", Subject: SubjectBiology, Topic: "Bioenergetics"},
	}
}
