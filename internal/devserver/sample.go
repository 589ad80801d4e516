package devserver

// SampleBank returns a small built-in bank used when no file is configured.
func SampleBank() Bank {
	return Bank{
		"MTK01": {
			{ID: "MTK01-1", Question: "Berapakah hasil dari 12 x 12?", OptionA: "124", OptionB: "144", OptionC: "142", OptionD: "132", Answer: "B"},
			{ID: "MTK01-2", Question: "Akar kuadrat dari 81 adalah?", OptionA: "8", OptionB: "7", OptionC: "9", OptionD: "11", Answer: "C"},
			{ID: "MTK01-3", Question: "Berapakah 15% dari 200?", OptionA: "30", OptionB: "15", OptionC: "20", OptionD: "35", Answer: "A"},
		},
		"IPA01": {
			{ID: "IPA01-1", Question: "Planet terdekat dari Matahari adalah?", OptionA: "Venus", OptionB: "Bumi", OptionC: "Mars", OptionD: "Merkurius", Answer: "D"},
			{ID: "IPA01-2", Question: "Rumus kimia air adalah?", OptionA: "H2O", OptionB: "CO2", OptionC: "O2", OptionD: "NaCl", Answer: "A"},
		},
	}
}
