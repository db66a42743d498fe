// Package mockdata generates synthetic 835 remittance files for
// development and demos. Output mimics the shape of real payer ERAs
// (envelope, payer/payee loops, denied claims) without containing any
// real data.
package mockdata

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type payer struct {
	Name string
	ID   string
}

type provider struct {
	Name string
	NPI  string
}

// scenario is one weighted denial shape. Common correctable denials carry
// the most weight so generated batches look like a real clinic's mix.
type scenario struct {
	carc      string
	group     string
	minAmount float64
	maxAmount float64
	weight    int
}

var payers = []payer{
	{"BLUE CROSS BLUE SHIELD OF IL", "00621"},
	{"AETNA BETTER HEALTH IL", "60054"},
	{"UNITED HEALTHCARE", "87726"},
	{"CIGNA HEALTHCARE", "62308"},
	{"HUMANA", "61101"},
}

var providers = []provider{
	{"JOHNSON SARAH A", "1234567890"},
	{"WILLIAMS MICHAEL R", "2345678901"},
	{"BROWN JENNIFER L", "3456789012"},
	{"DAVIS ROBERT K", "4567890123"},
	{"MILLER AMANDA J", "5678901234"},
}

var scenarios = []scenario{
	{"16", "CO", 80, 250, 25},
	{"4", "CO", 100, 200, 15},
	{"8", "CO", 120, 280, 15},
	{"29", "CO", 150, 350, 10},
	{"197", "CO", 200, 500, 10},
	{"96", "CO", 100, 300, 8},
	{"50", "CO", 150, 400, 5},
	{"182", "CO", 80, 180, 5},
	{"206", "CO", 100, 250, 3},
	{"27", "CO", 120, 300, 2},
	{"1", "PR", 50, 200, 2},
}

var firstNames = []string{"JAMES", "MARY", "JOHN", "PATRICIA", "ROBERT", "JENNIFER", "MICHAEL", "LINDA", "DAVID", "ELIZABETH"}
var lastNames = []string{"SMITH", "JOHNSON", "WILLIAMS", "BROWN", "JONES", "GARCIA", "MILLER", "DAVIS", "RODRIGUEZ", "MARTINEZ"}

// Generator produces synthetic ERA files. Seed it for reproducible output.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator creates a Generator seeded from the given source.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now(),
	}
}

func (g *Generator) patientName() string {
	return lastNames[g.rng.Intn(len(lastNames))] + " " + firstNames[g.rng.Intn(len(firstNames))]
}

func (g *Generator) claimID() string {
	return fmt.Sprintf("CLM%d", 100000000+g.rng.Intn(900000000))
}

func (g *Generator) pickScenario() scenario {
	total := 0
	for _, s := range scenarios {
		total += s.weight
	}
	r := g.rng.Intn(total)
	cumulative := 0
	for _, s := range scenarios {
		cumulative += s.weight
		if r < cumulative {
			return s
		}
	}
	return scenarios[len(scenarios)-1]
}

// File renders one complete 835 document for a random payer.
func (g *Generator) File(claims int) (name, content string) {
	p := payers[g.rng.Intn(len(payers))]
	return g.fileFor(p, claims)
}

func (g *Generator) fileFor(p payer, claims int) (string, string) {
	var lines []string
	isaControl := fmt.Sprintf("%d", 100000000+g.rng.Intn(900000000))

	lines = append(lines,
		fmt.Sprintf("ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *%s*%s*^*00501*%s*0*P*:~",
			g.now.Format("060102"), g.now.Format("1504"), isaControl),
		fmt.Sprintf("GS*HP*SENDER*RECEIVER*%s*%s*1*X*005010X221A1~", g.now.Format("20060102"), g.now.Format("1504")),
		"ST*835*0001~",
		fmt.Sprintf("BPR*I*0*C*NON************%s~", g.now.Format("20060102")),
		fmt.Sprintf("TRN*1*%d*1%s~", 10000000+g.rng.Intn(90000000), p.ID),
		fmt.Sprintf("DTM*405*%s~", g.now.Format("20060102")),
		fmt.Sprintf("N1*PR*%s*XV*%s~", p.Name, p.ID),
		"N3*PO BOX 12345~",
		"N4*CHICAGO*IL*606010000~",
		"N1*PE*VELDEN HEALTH PARTNERS*XX*1122334455~",
		"N3*123 HEALTHCARE BLVD~",
		"N4*CHICAGO*IL*606011234~",
	)

	for i := 0; i < claims; i++ {
		prov := providers[g.rng.Intn(len(providers))]
		sc := g.pickScenario()
		patient := strings.SplitN(g.patientName(), " ", 2)
		claimID := g.claimID()
		serviceDate := g.now.AddDate(0, 0, -(30 + g.rng.Intn(150))).Format("20060102")
		charge := sc.minAmount + g.rng.Float64()*(sc.maxAmount-sc.minAmount)

		provParts := strings.Fields(prov.Name)
		provMiddle := ""
		if len(provParts) > 2 {
			provMiddle = provParts[2]
		}

		lines = append(lines,
			fmt.Sprintf("CLP*%s*4*%.2f*0*0*MC*%d~", claimID, charge, 1000000+g.rng.Intn(9000000)),
			fmt.Sprintf("NM1*QC*1*%s*%s****MI*%d~", patient[0], patient[1], 100000000+g.rng.Intn(900000000)),
			fmt.Sprintf("NM1*82*1*%s*%s*%s***XX*%s~", provParts[0], provParts[1], provMiddle, prov.NPI),
			fmt.Sprintf("DTM*232*%s~", serviceDate),
			fmt.Sprintf("SVC*HC:90837*%.2f*0**1~", charge),
			fmt.Sprintf("DTM*472*%s~", serviceDate),
			fmt.Sprintf("CAS*%s*%s*%.2f~", sc.group, sc.carc, charge),
		)
	}

	lines = append(lines,
		fmt.Sprintf("SE*%d*0001~", len(lines)-2),
		"GE*1*1~",
		fmt.Sprintf("IEA*1*%s~", isaControl),
	)

	shortName := strings.ReplaceAll(p.Name, " ", "_")
	if len(shortName) > 15 {
		shortName = shortName[:15]
	}
	name := fmt.Sprintf("ERA_%s_%s.835", shortName, g.now.Format("20060102"))
	return name, strings.Join(lines, "\n")
}

// WriteFiles generates count files with claims denied claims each into
// dir, creating it if needed. Returns the paths written.
func (g *Generator) WriteFiles(dir string, count, claims int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "mockdata: create %s", dir)
	}

	var paths []string
	for i := 0; i < count; i++ {
		name, content := g.File(claims)
		// Suffix keeps same-payer files from colliding.
		name = strings.TrimSuffix(name, ".835") + fmt.Sprintf("_%d.835", i+1)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, eris.Wrapf(err, "mockdata: write %s", path)
		}
		paths = append(paths, path)
		zap.L().Info("mockdata: file written", zap.String("path", path), zap.Int("claims", claims))
	}
	return paths, nil
}
