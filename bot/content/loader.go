package content

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type racesFile struct {
	Races []Race `yaml:"races"`
}

type originsFile struct {
	Origins []Origin `yaml:"origins"`
}

type dreamsFile struct {
	Dreams []Dream `yaml:"dreams"`
}

type factionsFile struct {
	Factions []Faction `yaml:"factions"`
}

type shipsFile struct {
	Types    []ShipType    `yaml:"types"`
	Upgrades []ShipUpgrade `yaml:"upgrades"`
}

type questsFile struct {
	Quests []Quest `yaml:"quests"`
}

type alliesFile struct {
	Allies []Ally `yaml:"allies"`
}

// Load reads every content file under dir, parses requirement tokens, and
// validates cross-references. Files are independent so they load in parallel.
func Load(dir string) (*Tables, error) {
	t := &Tables{
		races:     make(map[string]Race),
		origins:   make(map[string]Origin),
		dreams:    make(map[string]Dream),
		factions:  make(map[string]Faction),
		shipTypes: make(map[string]ShipType),
		upgrades:  make(map[string]ShipUpgrade),
		quests:    make(map[string]Quest),
		allies:    make(map[string]Ally),
	}

	var (
		races    racesFile
		origins  originsFile
		dreams   dreamsFile
		factions factionsFile
		ships    shipsFile
		quests   questsFile
		allies   alliesFile
	)

	var g errgroup.Group
	g.Go(func() error { return readYAML(filepath.Join(dir, "races.yaml"), &races) })
	g.Go(func() error { return readYAML(filepath.Join(dir, "origins.yaml"), &origins) })
	g.Go(func() error { return readYAML(filepath.Join(dir, "dreams.yaml"), &dreams) })
	g.Go(func() error { return readYAML(filepath.Join(dir, "factions.yaml"), &factions) })
	g.Go(func() error { return readYAML(filepath.Join(dir, "ships.yaml"), &ships) })
	g.Go(func() error { return readYAML(filepath.Join(dir, "quests.yaml"), &quests) })
	g.Go(func() error { return readYAML(filepath.Join(dir, "allies.yaml"), &allies) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range races.Races {
		if _, dup := t.races[r.Name]; dup {
			return nil, fmt.Errorf("duplicate race %q", r.Name)
		}
		t.races[r.Name] = r
	}
	for _, o := range origins.Origins {
		if _, dup := t.origins[o.Name]; dup {
			return nil, fmt.Errorf("duplicate origin %q", o.Name)
		}
		t.origins[o.Name] = o
	}
	for _, d := range dreams.Dreams {
		if _, dup := t.dreams[d.Name]; dup {
			return nil, fmt.Errorf("duplicate dream %q", d.Name)
		}
		t.dreams[d.Name] = d
	}
	for _, f := range factions.Factions {
		if _, dup := t.factions[f.Name]; dup {
			return nil, fmt.Errorf("duplicate faction %q", f.Name)
		}
		t.factions[f.Name] = f
	}
	for _, s := range ships.Types {
		if _, dup := t.shipTypes[s.Name]; dup {
			return nil, fmt.Errorf("duplicate ship type %q", s.Name)
		}
		t.shipTypes[s.Name] = s
	}
	for _, u := range ships.Upgrades {
		if _, dup := t.upgrades[u.ID]; dup {
			return nil, fmt.Errorf("duplicate upgrade %q", u.ID)
		}
		u.Requirements = ParseRequirements(u.RawRequirements)
		t.upgrades[u.ID] = u
	}
	for _, q := range quests.Quests {
		if _, dup := t.quests[q.ID]; dup {
			return nil, fmt.Errorf("duplicate quest %q", q.ID)
		}
		t.quests[q.ID] = q
		t.questOrder = append(t.questOrder, q.ID)
	}
	for _, a := range allies.Allies {
		if _, dup := t.allies[a.ID]; dup {
			return nil, fmt.Errorf("duplicate ally %q", a.ID)
		}
		a.Requirements = ParseRequirements(a.RawRequirements)
		t.allies[a.ID] = a
		t.allyOrder = append(t.allyOrder, a.ID)
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading content file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}
