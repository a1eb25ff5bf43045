package domain

// DegreeClass is a ministerial degree class.
type DegreeClass struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DegreeClasses is the catalog offered to the model and to reviewers.
var DegreeClasses = []DegreeClass{
	{
		Code:        "L-13",
		Name:        "Scienze biologiche",
		Description: "Corso di laurea triennale in Scienze biologiche che prepara laureati con conoscenze di base dei principali settori delle scienze biologiche e competenze metodologiche e tecnologiche multidisciplinari per attività professionali e di ricerca in ambito biologico.",
	},
	{
		Code:        "L-2",
		Name:        "Biotecnologie",
		Description: "Corso di laurea triennale in Biotecnologie finalizzato alla formazione di laureati con competenze integrate di base nei diversi settori delle biotecnologie, con particolare riferimento agli aspetti cellulari e molecolari.",
	},
	{
		Code:        "L-27",
		Name:        "Scienze e tecnologie chimiche",
		Description: "Corso di laurea triennale in Scienze e tecnologie chimiche che forma laureati con adeguate conoscenze di base dei diversi settori della chimica e competenze nelle metodiche disciplinari di indagine.",
	},
	{
		Code:        "LM-6",
		Name:        "Biologia",
		Description: "Corso di laurea magistrale in Biologia che forma laureati con elevata preparazione scientifica ed operativa nelle discipline che caratterizzano la classe, con approfondimenti negli aspetti applicativi e strumentali.",
	},
	{
		Code:        "LM-8",
		Name:        "Biotecnologie industriali",
		Description: "Corso di laurea magistrale in Biotecnologie industriali per formare laureati con competenze avanzate nelle biotecnologie applicate ai settori industriali.",
	},
	{
		Code:        "LM-9",
		Name:        "Biotecnologie mediche, veterinarie e farmaceutiche",
		Description: "Corso di laurea magistrale che forma laureati con competenze avanzate nelle biotecnologie applicate in ambito medico, veterinario e farmaceutico.",
	},
	{
		Code:        "LM-54",
		Name:        "Scienze chimiche",
		Description: "Corso di laurea magistrale in Scienze chimiche per formare laureati con elevata preparazione scientifica ed operativa nelle discipline chimiche.",
	},
}

// LookupDegreeClass finds a catalog entry by code.
func LookupDegreeClass(code string) (DegreeClass, bool) {
	for _, dc := range DegreeClasses {
		if dc.Code == code {
			return dc, true
		}
	}
	return DegreeClass{}, false
}
