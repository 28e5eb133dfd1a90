package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/needs"
	"github.com/jwebster45206/hearth/pkg/npc"
)

const helpText = `Commands:
• /add <name> [x y]         - Register a resident
• /move <name> <x> <y>      - Move a resident
• /residents                - List residents and their needs
• /assign <name>            - Give a resident a house
• /home <name>              - Send a resident home
• /enter <name>             - Go inside (must be near the door)
• /exit <name>              - Step outside
• /restore <name> <activity> - sleep, cook, relax, freshen_up, read
• /use <name> <category>    - Use the first item of a category
• /click <name> <x> <y>     - Use the item at an interior position
• /interior <name>          - List the furniture of a house
• /tick [drain]             - Run one pass of the home routine
• /save [id]                - Save the houses (new slot or overwrite)
• /saves                    - List save slots
• /load <id>                - Load a save slot
• /debug                    - Dump every assignment
• /help                     - Show this help
• Ctrl+Y                    - Copy the log
• Ctrl+C                    - Quit`

var errUsage = errors.New("usage")

// command is one parsed console line.
type command struct {
	Name string
	Args []string
}

// parseCommand splits "/enter Alice" into its name and arguments.
func parseCommand(input string) (command, error) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return command{}, fmt.Errorf("commands start with /, try /help")
	}
	return command{Name: strings.ToLower(strings.TrimPrefix(fields[0], "/")), Args: fields[1:]}, nil
}

func (c command) want(n int, usage string) error {
	if len(c.Args) != n {
		return fmt.Errorf("%w: /%s %s", errUsage, c.Name, usage)
	}
	return nil
}

// changesHouses reports whether the house panel should be refreshed after c.
func (c command) changesHouses() bool {
	switch c.Name {
	case "assign", "home", "enter", "exit", "click", "tick", "load":
		return true
	}
	return false
}

// run executes c against the API and returns the text to log.
func run(api *apiClient, c command) (string, error) {
	switch c.Name {
	case "help":
		return helpText, nil

	case "add":
		if len(c.Args) != 1 && len(c.Args) != 3 {
			return "", fmt.Errorf("%w: /add <name> [x y]", errUsage)
		}
		var pos house.Point
		if len(c.Args) == 3 {
			var err error
			if pos, err = parsePoint(c.Args[1], c.Args[2]); err != nil {
				return "", err
			}
		}
		s, err := api.addResident(c.Args[0], pos)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %s at (%g, %g).", s.Name, s.Position.X, s.Position.Y), nil

	case "move":
		if err := c.want(3, "<name> <x> <y>"); err != nil {
			return "", err
		}
		pos, err := parsePoint(c.Args[1], c.Args[2])
		if err != nil {
			return "", err
		}
		s, err := api.moveResident(c.Args[0], pos)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is now at (%g, %g).", s.Name, s.Position.X, s.Position.Y), nil

	case "residents":
		list, err := api.listResidents()
		if err != nil {
			return "", err
		}
		if len(list) == 0 {
			return "No residents yet. Add one with /add <name>.", nil
		}
		lines := make([]string, 0, len(list))
		for _, s := range list {
			lines = append(lines, formatResident(s))
		}
		return strings.Join(lines, "\n"), nil

	case "assign":
		if err := c.want(1, "<name>"); err != nil {
			return "", err
		}
		a, err := api.assign(c.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s lives in the %s at (%g, %g).", a.Occupant, a.Type, a.Location.X, a.Location.Y), nil

	case "home", "enter", "exit":
		if err := c.want(1, "<name>"); err != nil {
			return "", err
		}
		action := c.Name
		if action == "home" {
			action = "go-home"
		}
		s, err := api.residentAction(c.Args[0], action)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is %s at (%g, %g).", s.Name, stateLabel(s.State), s.Position.X, s.Position.Y), nil

	case "restore":
		if err := c.want(2, "<name> <activity>"); err != nil {
			return "", err
		}
		resp, err := api.restore(c.Args[0], c.Args[1])
		if err != nil {
			return "", err
		}
		return resp.Message + "\n" + formatResident(resp.Resident), nil

	case "use":
		if err := c.want(2, "<name> <category>"); err != nil {
			return "", err
		}
		resp, err := api.use(c.Args[0], c.Args[1])
		if err != nil {
			return "", err
		}
		return resp.Result.Message + "\n" + formatResident(resp.Resident), nil

	case "click":
		if err := c.want(3, "<name> <x> <y>"); err != nil {
			return "", err
		}
		x, errX := strconv.Atoi(c.Args[1])
		y, errY := strconv.Atoi(c.Args[2])
		if errX != nil || errY != nil {
			return "", fmt.Errorf("interior coordinates must be whole numbers")
		}
		resp, err := api.interact(c.Args[0], x, y)
		if err != nil {
			return "", err
		}
		if resp.Result.Exit {
			return fmt.Sprintf("%s walks out the %s.", resp.Resident.Name, house.Label(resp.Result.Category)), nil
		}
		return resp.Result.Message + "\n" + formatResident(resp.Resident), nil

	case "interior":
		if err := c.want(1, "<name>"); err != nil {
			return "", err
		}
		in, err := api.interior(c.Args[0])
		if err != nil {
			return "", err
		}
		return formatInterior(in), nil

	case "tick":
		if len(c.Args) > 1 {
			return "", fmt.Errorf("%w: /tick [drain]", errUsage)
		}
		var drain *float64
		if len(c.Args) == 1 {
			d, err := strconv.ParseFloat(c.Args[0], 64)
			if err != nil {
				return "", fmt.Errorf("drain must be a number")
			}
			drain = &d
		}
		outcomes, err := api.tick(drain)
		if err != nil {
			return "", err
		}
		return formatOutcomes(outcomes), nil

	case "save":
		if len(c.Args) > 1 {
			return "", fmt.Errorf("%w: /save [id]", errUsage)
		}
		id := uuid.Nil
		if len(c.Args) == 1 {
			var err error
			if id, err = uuid.Parse(c.Args[0]); err != nil {
				return "", fmt.Errorf("invalid save id %q", c.Args[0])
			}
		}
		saved, err := api.save(id)
		if err != nil {
			return "", err
		}
		return "Saved to slot " + saved.String(), nil

	case "saves":
		ids, err := api.listSaves()
		if err != nil {
			return "", err
		}
		if len(ids) == 0 {
			return "No saves.", nil
		}
		lines := make([]string, len(ids))
		for i, id := range ids {
			lines[i] = "• " + id.String()
		}
		return strings.Join(lines, "\n"), nil

	case "load":
		if err := c.want(1, "<id>"); err != nil {
			return "", err
		}
		id, err := uuid.Parse(c.Args[0])
		if err != nil {
			return "", fmt.Errorf("invalid save id %q", c.Args[0])
		}
		if err := api.load(id); err != nil {
			return "", err
		}
		return "Loaded slot " + id.String(), nil

	case "debug":
		return api.debug()

	default:
		return "", fmt.Errorf("unknown command /%s, try /help", c.Name)
	}
}

func parsePoint(xs, ys string) (house.Point, error) {
	x, errX := strconv.ParseFloat(xs, 64)
	y, errY := strconv.ParseFloat(ys, 64)
	if errX != nil || errY != nil {
		return house.Point{}, fmt.Errorf("coordinates must be numbers")
	}
	return house.Point{X: x, Y: y}, nil
}

func stateLabel(s house.ControlState) string {
	switch s {
	case house.StateInside:
		return "inside"
	case house.StateTravelingHome:
		return "heading home"
	default:
		return "outside"
	}
}

// formatResident renders one line like
// "Alice (inside) hunger 70% sleep 100% fun 100% social 100% energy 100%".
func formatResident(s npc.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", s.Name, stateLabel(s.State))
	for _, need := range needs.All {
		fmt.Fprintf(&b, " %s %d%%", need, needs.Percent(s.Needs[need]))
	}
	fmt.Fprintf(&b, " energy %d%%", needs.Percent(s.Energy))
	return b.String()
}

func formatInterior(in *house.Interior) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s's house (%dx%d)\n", in.Owner, in.Width, in.Height)
	for _, item := range in.Items {
		fmt.Fprintf(&b, "• %s at (%d, %d) %dx%d", item.Label(), item.X, item.Y, item.Width, item.Height)
		if effects, ok := house.ItemEffects(item.Category); ok {
			parts := make([]string, len(effects))
			for i, e := range effects {
				parts[i] = fmt.Sprintf("%s +%d%%", e.Need, needs.Percent(e.Amount))
			}
			fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatOutcomes(outcomes []npc.Outcome) string {
	var lines []string
	for _, out := range outcomes {
		if out.Action == npc.ActionNone {
			continue
		}
		line := fmt.Sprintf("%s: %s", out.Resident, out.Action)
		if out.Message != "" {
			line += " - " + out.Message
		}
		lines = append(lines, line)
		if out.Detail != "" {
			lines = append(lines, "  "+out.Detail)
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("Tick: nothing happened for %d residents.", len(outcomes))
	}
	return strings.Join(lines, "\n")
}

// formatEvent renders an SSE event for the log.
func formatEvent(e SSEEvent) string {
	occupant, _ := e.Data["occupant"].(string)
	data, _ := e.Data["data"].(map[string]any)

	switch e.Type {
	case "connected":
		return "Connected to event stream."
	case "house.assigned":
		return fmt.Sprintf("%s was assigned a %v at (%v, %v).", occupant, data["house_type"], data["x"], data["y"])
	case "house.entered":
		return occupant + " went inside."
	case "house.exited":
		return occupant + " stepped outside."
	case "house.restored":
		return fmt.Sprintf("%v", data["message"])
	case "world.saved":
		return fmt.Sprintf("World saved to %v.", data["save_id"])
	case "world.loaded":
		return fmt.Sprintf("World loaded from %v.", data["save_id"])
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.TrimSpace(e.Type + " " + strings.Join(parts, " "))
}
