package property

import (
	"github.com/vanzari-imobiliare/api/internal/utils"
)

// Canonical attribute keys.
const (
	FieldFloor       = "etaj"
	FieldUnit        = "nrAp"
	FieldType        = "tipCom"
	FieldArea        = "mpUtili"
	FieldPriceCredit = "pretCredit"
	FieldPriceCash   = "pretCash"
	FieldPriceAdv50  = "pretAvans50"
	FieldPriceAdv80  = "pretAvans80"
	FieldCorp        = "corp"
	FieldBuyer       = "client"
	FieldPhone       = "telefon"
	FieldAgent       = "agent"
	FieldFinishes    = "finisaje"
	FieldNotes       = "observatii"
	FieldCommission  = "comision"
	FieldStatus      = "status"
)

// CanonicalKeys lists the canonical keys in table order.
var CanonicalKeys = []string{
	FieldFloor, FieldUnit, FieldType, FieldArea,
	FieldPriceCredit, FieldPriceCash, FieldPriceAdv50, FieldPriceAdv80,
	FieldCorp, FieldBuyer, FieldPhone, FieldAgent,
	FieldFinishes, FieldNotes, FieldCommission, FieldStatus,
}

// aliases holds, per canonical key, the literal spellings seen in imported
// spreadsheets in lookup priority order. Resolve, the filters and the
// spreadsheet exporter all read this table.
var aliases = map[string][]string{
	FieldFloor: {"etaj", "Etaj", "ETAJ", "floor", "Floor", "Nivel", "NIVEL"},
	FieldUnit: {"nrAp", "nr_ap", "Nr. ap.", "Nr. Ap.", "NR. AP.", "Nr ap", "Nr.ap", "Nr. apartament",
		"Apartament", "APARTAMENT", "Ap", "AP", "Unitate"},
	FieldType: {"tipCom", "tip_com", "Tip com.", "Tip Com", "TIP COM.", "Tip comercial", "Tip apartament",
		"Tip", "TIP", "tip", "Tipologie"},
	FieldArea: {"mpUtili", "mp_utili", "MP utili", "Mp utili", "MP UTILI", "Suprafata utila", "Suprafață utilă",
		"Suprafata", "Suprafață", "SUPRAFATA", "Mp", "MP", "mp"},
	FieldPriceCredit: {"pretCredit", "pret_credit", "Pret Credit", "Pret credit", "Preț credit", "PRET CREDIT",
		"Pret", "Preț", "PRET"},
	FieldPriceCash:  {"pretCash", "pret_cash", "Pret Cash", "Pret cash", "Preț cash", "PRET CASH"},
	FieldPriceAdv50: {"pretAvans50", "pret_avans_50", "Pret Avans 50%", "Pret avans 50%", "PRET AVANS 50%", "Avans 50%"},
	FieldPriceAdv80: {"pretAvans80", "pret_avans_80", "Pret Avans 80%", "Pret avans 80%", "PRET AVANS 80%", "Avans 80%"},
	FieldCorp:       {"corp", "Corp", "CORP", "Bloc", "BLOC", "bloc"},
	FieldBuyer: {"client", "Client", "CLIENT", "Cumparator", "Cumpărător", "CUMPARATOR", "Nume client",
		"Nume", "NUME"},
	FieldPhone:      {"telefon", "Telefon", "TELEFON", "Tel", "TEL", "tel", "Phone"},
	FieldAgent:      {"agent", "Agent", "AGENT", "Agent vanzari", "Agent vânzări"},
	FieldFinishes:   {"finisaje", "Finisaje", "FINISAJE"},
	FieldNotes:      {"observatii", "Observatii", "Observații", "OBSERVATII", "Obs", "OBS", "obs", "Mentiuni"},
	FieldCommission: {"comision", "Comision", "COMISION", "commission"},
	FieldStatus:     {"status", "Status", "STATUS", "Stare", "STARE"},
}

// byHeader maps a normalised spelling to its canonical key.
var byHeader = buildHeaderIndex()

func buildHeaderIndex() map[string]string {
	idx := make(map[string]string)
	for _, key := range CanonicalKeys {
		for _, alias := range aliases[key] {
			n := utils.NormalizeHeader(alias)
			if _, taken := idx[n]; !taken {
				idx[n] = key
			}
		}
	}
	return idx
}

// Aliases returns the spellings of a canonical key in priority order.
func Aliases(key string) []string {
	return append([]string(nil), aliases[key]...)
}

// CanonicalFor maps a column header to its canonical key, comparing
// case-, diacritic- and punctuation-insensitively.
func CanonicalFor(header string) (string, bool) {
	key, ok := byHeader[utils.NormalizeHeader(header)]
	return key, ok
}

// Resolve returns the first present value among the spellings of key, or
// the null value.
func Resolve(attrs *Attributes, key string) Value {
	for _, alias := range aliases[key] {
		if v, ok := attrs.Get(alias); ok && v.Present() {
			return v
		}
	}
	return Null()
}

// ResolveText is Resolve rendered for display, "" when absent.
func ResolveText(attrs *Attributes, key string) string {
	return Resolve(attrs, key).String()
}
