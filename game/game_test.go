package game

import (
	"slices"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/systems"
)

type soundRecorder struct {
	signals []systems.Signal
}

func (s *soundRecorder) Play(sig systems.Signal) {
	s.signals = append(s.signals, sig)
}

func (s *soundRecorder) count(sig systems.Signal) int {
	n := 0
	for _, got := range s.signals {
		if got == sig {
			n++
		}
	}
	return n
}

type wreckRecorder struct {
	wrecks []Wreck
}

func (w *wreckRecorder) Accept(wr Wreck) {
	w.wrecks = append(w.wrecks, wr)
}

func (w *wreckRecorder) Clear() {
	w.wrecks = nil
}

func newTestGame(t *testing.T) (*Game, *soundRecorder, *wreckRecorder) {
	t.Helper()
	sounds := &soundRecorder{}
	wrecks := &wreckRecorder{}
	g := NewGameWithOptions(Options{
		Config: config.Default(),
		Seed:   1,
		Sound:  sounds,
		Wrecks: wrecks,
	})
	return g, sounds, wrecks
}

// placePlayer replaces the current player with one at start heading for
// target. grace controls the spawn grace period.
func placePlayer(g *Game, start, target grid.Cell, grace bool) ecs.Entity {
	if g.hasPlayer {
		g.world.RemoveEntity(g.player)
		g.hasPlayer = false
	}
	e := g.spawnActor(components.RolePlayer, start, components.NewJourney(start, target), g.nextAppearance())
	g.player = e
	g.hasPlayer = true
	if !grace {
		g.graceMap.Remove(e)
	}
	g.reconcile()
	return e
}

// placeBot adds an automated actor at cell replaying path from index.
func placeBot(g *Game, cell grid.Cell, path []grid.Cell, index int, grace bool) ecs.Entity {
	j := components.Journey{Start: path[0], Target: path[len(path)/2], Path: path, BotIndex: index}
	e := g.spawnActor(components.RoleAutomated, cell, j, g.nextAppearance())
	if !grace {
		g.graceMap.Remove(e)
	}
	g.reconcile()
	return e
}

func cell(x, y int) grid.Cell { return grid.Cell{X: x, Y: y} }

// settle steps without input until no actor is in transit.
func settle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if g.anyInTransit() {
			g.Step(g.cfg.Physics.DT, Input{})
			continue
		}
		return
	}
	t.Fatal("actors still in transit after 200 ticks")
}

func (g *Game) anyInTransit() bool {
	query := g.transitFilter.Query()
	defer query.Close()
	return query.Next()
}

// walk moves the player one cell per direction, settling after each move.
func walk(t *testing.T, g *Game, dirs ...grid.Direction) {
	t.Helper()
	for _, d := range dirs {
		g.Step(g.cfg.Physics.DT, Move(d))
		settle(t, g)
	}
}

func repeat(d grid.Direction, n int) []grid.Direction {
	out := make([]grid.Direction, n)
	for i := range out {
		out[i] = d
	}
	return out
}

func countRole(v View, role components.Role) int {
	n := 0
	for _, a := range v.Actors {
		if a.Role == role {
			n++
		}
	}
	return n
}

func TestNewGameSpawnsOnePlayer(t *testing.T) {
	g, _, _ := newTestGame(t)
	v := g.View()

	if got := countRole(v, components.RolePlayer); got != 1 {
		t.Fatalf("players = %d, want 1", got)
	}
	if len(v.Actors) != 1 {
		t.Errorf("actors = %d, want 1", len(v.Actors))
	}
	player, journey, _ := v.Player()
	if !player.Grace {
		t.Error("new player should be in its grace period")
	}
	if len(journey.Path) != 0 {
		t.Errorf("Path = %v, want empty", journey.Path)
	}
	if v.Score != (systems.Score{RemainingAttempts: 20}) {
		t.Errorf("Score = %+v, want 20 attempts and no journeys", v.Score)
	}
	if v.Hint == nil || v.Hint.Text != HintGoHere || v.Hint.Cell != journey.Target {
		t.Errorf("Hint = %+v, want %q at %v", v.Hint, HintGoHere, journey.Target)
	}
}

func TestPlayerMoveEndsGrace(t *testing.T) {
	g, sounds, _ := newTestGame(t)
	start := cell(0, 3)
	e := placePlayer(g, start, cell(5, 2), true)

	g.Step(g.cfg.Physics.DT, Move(grid.Right))
	if !g.transitionMap.Has(e) {
		t.Fatal("player has no transition after a move")
	}
	if !g.graceMap.Has(e) {
		t.Error("grace cleared before the first transition completed")
	}

	settle(t, g)
	if got := g.posMap.Get(e).Cell; got != cell(1, 3) {
		t.Errorf("player cell = %v, want (1,3)", got)
	}
	if g.graceMap.Has(e) {
		t.Error("grace still set after the first transition")
	}
	if sounds.count(systems.SignalMove) != 1 {
		t.Errorf("move sounds = %d, want 1", sounds.count(systems.SignalMove))
	}
}

func TestMoveIgnoredWhileInTransit(t *testing.T) {
	g, _, _ := newTestGame(t)
	e := placePlayer(g, cell(0, 3), cell(5, 2), false)

	g.Step(g.cfg.Physics.DT, Move(grid.Right))
	g.Step(g.cfg.Physics.DT, Move(grid.Up))
	settle(t, g)

	if got := g.posMap.Get(e).Cell; got != cell(1, 3) {
		t.Errorf("player cell = %v, want (1,3)", got)
	}
	if got := len(g.journeyMap.Get(e).Path); got != 2 {
		t.Errorf("len(Path) = %d, want 2", got)
	}
}

func TestBorderMoveIsNotAMove(t *testing.T) {
	g, sounds, _ := newTestGame(t)
	e := placePlayer(g, cell(0, 3), cell(5, 2), false)

	g.Step(g.cfg.Physics.DT, Move(grid.Left))
	if g.transitionMap.Has(e) {
		t.Error("moving off the board started a transition")
	}
	if len(sounds.signals) != 0 {
		t.Errorf("signals = %v, want none", sounds.signals)
	}
}

func TestJourneyConvertsPlayerToBot(t *testing.T) {
	g, sounds, _ := newTestGame(t)
	start, target := cell(0, 3), cell(5, 2)
	first := placePlayer(g, start, target, false)
	firstID := g.actorMap.Get(first).ID

	route := repeat(grid.Right, 5)
	route = append(route, grid.Down)
	route = append(route, repeat(grid.Left, 5)...)

	walk(t, g, route...)
	if g.Score().Journeys != 0 {
		t.Fatalf("journey finished before returning to start")
	}

	g.Step(g.cfg.Physics.DT, Move(grid.Up))

	if g.Score().Journeys != 1 {
		t.Errorf("Journeys = %d, want 1", g.Score().Journeys)
	}
	actor := g.actorMap.Get(first)
	if actor.Role != components.RoleAutomated {
		t.Fatalf("role = %v, want %v", actor.Role, components.RoleAutomated)
	}
	j := g.journeyMap.Get(first)
	if len(j.Path) != 12 || j.Path[0] != start || j.BotIndex != 0 {
		t.Errorf("frozen journey = %v (index %d), want 12-cell loop from %v at index 0", j.Path, j.BotIndex, start)
	}
	tr := g.transitionMap.Get(first)
	if tr.Start != cell(0, 2) || tr.End != start {
		t.Errorf("converted actor transition = %v -> %v, want (0,2) -> %v", tr.Start, tr.End, start)
	}

	if !g.hasPlayer || g.player == first {
		t.Fatal("no new player after the journey finished")
	}
	if id := g.actorMap.Get(g.player).ID; id == firstID {
		t.Errorf("new player reuses id %d", id)
	}
	if len(g.journeyMap.Get(g.player).Path) != 0 {
		t.Error("new player path is not empty")
	}
	if sounds.count(systems.SignalGoal) != 1 || sounds.count(systems.SignalCoin) != 1 {
		t.Errorf("goal/coin sounds = %d/%d, want 1/1", sounds.count(systems.SignalGoal), sounds.count(systems.SignalCoin))
	}
	if app := g.appearanceMap.Get(first); app.Alpha != float32(g.cfg.Display.BotAlpha) {
		t.Errorf("bot alpha = %v, want %v", app.Alpha, g.cfg.Display.BotAlpha)
	}

	// The new player's first move drives the bot one step.
	settle(t, g)
	v := g.View()
	player, _, _ := v.Player()
	for _, d := range grid.Directions {
		if next := g.geom.Step(player.Cell, d); next != player.Cell && !v.Occupied(next) {
			g.Step(g.cfg.Physics.DT, Move(d))
			break
		}
	}
	j = g.journeyMap.Get(first)
	if j.BotIndex != 1 {
		t.Errorf("bot index = %d, want 1", j.BotIndex)
	}
	if tr := g.transitionMap.Get(first); tr.End != cell(1, 3) {
		t.Errorf("bot heading to %v, want (1,3)", tr.End)
	}
}

func TestPlayerDestroyedOnLastAttemptEndsGame(t *testing.T) {
	g, sounds, wrecks := newTestGame(t)
	g.ctx.Score.RemainingAttempts = 1
	placePlayer(g, cell(0, 3), cell(5, 2), false)
	bot := placeBot(g, cell(0, 3), []grid.Cell{cell(0, 3), cell(1, 3)}, 0, false)

	g.Step(g.cfg.Physics.DT, Input{})

	if g.Score().RemainingAttempts != 0 {
		t.Errorf("RemainingAttempts = %d, want 0", g.Score().RemainingAttempts)
	}
	if g.Mode() != systems.ModeEndGame {
		t.Errorf("Mode = %v, want %v", g.Mode(), systems.ModeEndGame)
	}
	v := g.View()
	if countRole(v, components.RolePlayer) != 0 {
		t.Error("a replacement player was spawned after the last attempt")
	}
	if !g.world.Alive(bot) || g.actorMap.Get(bot).Role != components.RoleAutomated {
		t.Error("the bot did not survive")
	}
	if len(wrecks.wrecks) != 1 {
		t.Errorf("wrecks = %d, want 1", len(wrecks.wrecks))
	}
	if sounds.count(systems.SignalHurt) != 1 {
		t.Errorf("hurt sounds = %d, want 1", sounds.count(systems.SignalHurt))
	}

	// Movement is ignored once the game has ended.
	tick := g.Tick()
	g.Step(g.cfg.Physics.DT, Move(grid.Right))
	if g.Tick() != tick+1 || g.anyInTransit() {
		t.Error("end state accepted a move")
	}
}

func TestRestartAfterEndGame(t *testing.T) {
	g, _, wrecks := newTestGame(t)
	g.ctx.CompleteJourney()
	g.ctx.Score.RemainingAttempts = 1
	placePlayer(g, cell(0, 3), cell(5, 2), false)
	placeBot(g, cell(0, 3), []grid.Cell{cell(0, 3), cell(1, 3)}, 0, false)
	g.Step(g.cfg.Physics.DT, Input{})
	if g.Mode() != systems.ModeEndGame {
		t.Fatalf("Mode = %v, want %v", g.Mode(), systems.ModeEndGame)
	}
	if len(wrecks.wrecks) != 1 {
		t.Fatalf("wrecks = %d before restart, want 1", len(wrecks.wrecks))
	}

	g.Step(g.cfg.Physics.DT, Input{Restart: true})

	if len(wrecks.wrecks) != 0 {
		t.Errorf("wrecks = %d after restart, want cleared", len(wrecks.wrecks))
	}

	if g.Mode() != systems.ModeInGame {
		t.Errorf("Mode = %v, want %v", g.Mode(), systems.ModeInGame)
	}
	if g.Score() != (systems.Score{RemainingAttempts: g.cfg.Score.Attempts}) {
		t.Errorf("Score = %+v, want fresh", g.Score())
	}
	v := g.View()
	if len(v.Actors) != 1 || countRole(v, components.RolePlayer) != 1 {
		t.Fatalf("actors = %+v, want exactly one player", v.Actors)
	}
	if len(v.Journeys[0].Path) != 0 {
		t.Errorf("Path = %v, want empty", v.Journeys[0].Path)
	}
	if v.Hint == nil {
		t.Error("restarted game has no tutorial hint")
	}
}

func TestRestartIgnoredInGame(t *testing.T) {
	g, _, _ := newTestGame(t)
	before := g.actorMap.Get(g.player).ID
	g.Step(g.cfg.Physics.DT, Input{Restart: true})
	if after := g.actorMap.Get(g.player).ID; after != before {
		t.Errorf("player changed from %d to %d on restart while playing", before, after)
	}
}

func TestPlayerDestroyedRespawns(t *testing.T) {
	g, _, wrecks := newTestGame(t)
	old := placePlayer(g, cell(0, 3), cell(5, 2), false)
	placeBot(g, cell(0, 3), []grid.Cell{cell(0, 3), cell(1, 3)}, 0, false)

	g.Step(g.cfg.Physics.DT, Input{})

	if g.Score().RemainingAttempts != g.cfg.Score.Attempts-1 {
		t.Errorf("RemainingAttempts = %d, want %d", g.Score().RemainingAttempts, g.cfg.Score.Attempts-1)
	}
	if g.world.Alive(old) {
		t.Error("destroyed player still in the world")
	}
	if !g.hasPlayer || !g.graceMap.Has(g.player) {
		t.Fatal("no replacement player in its grace period")
	}
	p := g.posMap.Get(g.player).Cell
	if p == cell(0, 3) {
		t.Errorf("replacement spawned on an occupied cell %v", p)
	}
	if len(wrecks.wrecks) != 1 {
		t.Fatalf("wrecks = %d, want 1", len(wrecks.wrecks))
	}
	if want := g.geom.CellToWorld(cell(0, 3)); wrecks.wrecks[0].World != want {
		t.Errorf("wreck at %v, want %v", wrecks.wrecks[0].World, want)
	}
}

func TestBotDestroyedIsReplacedAtStart(t *testing.T) {
	g, _, wrecks := newTestGame(t)
	placePlayer(g, cell(0, 3), cell(5, 2), true)
	path := []grid.Cell{cell(0, 2), cell(0, 3), cell(1, 3), cell(1, 2)}
	bot := placeBot(g, cell(0, 3), slices.Clone(path), 1, false)
	botID := g.actorMap.Get(bot).ID

	g.Step(g.cfg.Physics.DT, Input{})

	if g.world.Alive(bot) {
		t.Fatal("destroyed bot still in the world")
	}
	if g.Score().RemainingAttempts != g.cfg.Score.Attempts {
		t.Error("bot destruction cost an attempt")
	}
	if len(wrecks.wrecks) != 1 {
		t.Errorf("wrecks = %d, want 1", len(wrecks.wrecks))
	}

	v := g.View()
	if countRole(v, components.RoleAutomated) != 1 {
		t.Fatalf("bots = %d, want 1", countRole(v, components.RoleAutomated))
	}
	for i, a := range v.Actors {
		if a.Role != components.RoleAutomated {
			continue
		}
		j := v.Journeys[i]
		if a.ID == botID {
			t.Error("replacement reuses the destroyed bot id")
		}
		if a.Cell != path[0] || !a.Grace {
			t.Errorf("replacement at %v grace=%v, want %v in grace", a.Cell, a.Grace, path[0])
		}
		if !slices.Equal(j.Path, path) {
			t.Errorf("replacement path = %v, want %v", j.Path, path)
		}
	}
}

func TestBothInGraceSurvive(t *testing.T) {
	g, _, wrecks := newTestGame(t)
	placePlayer(g, cell(0, 3), cell(5, 2), true)
	placeBot(g, cell(0, 3), []grid.Cell{cell(0, 3), cell(1, 3)}, 0, true)

	g.Step(g.cfg.Physics.DT, Input{})

	if len(wrecks.wrecks) != 0 {
		t.Errorf("wrecks = %d, want 0", len(wrecks.wrecks))
	}
	if len(g.View().Actors) != 2 {
		t.Errorf("actors = %d, want 2", len(g.View().Actors))
	}
}

func TestReplaySnapsBotsInTransit(t *testing.T) {
	g, _, _ := newTestGame(t)
	placePlayer(g, cell(2, 0), cell(5, 2), false)
	bot := placeBot(g, cell(4, 4), []grid.Cell{cell(4, 4), cell(4, 3), cell(3, 3), cell(3, 4)}, 0, false)
	single := placeBot(g, cell(1, 4), []grid.Cell{cell(1, 4)}, 0, false)

	g.Step(g.cfg.Physics.DT, Move(grid.Up))
	if tr := g.transitionMap.Get(bot); tr.End != cell(4, 3) {
		t.Fatalf("bot heading to %v, want (4,3)", tr.End)
	}
	if g.transitionMap.Has(single) {
		t.Error("single-cell bot started a transition")
	}

	// Finish the player's move but not the bot's, then move again.
	g.transitionMap.Remove(bot)
	tr := components.NewTransition(cell(4, 4), cell(4, 3))
	settle(t, g)
	g.transitionMap.Add(bot, &tr)

	g.Step(g.cfg.Physics.DT, Move(grid.Up))
	if got := g.posMap.Get(bot).Cell; got != cell(4, 3) {
		t.Errorf("bot cell = %v, want (4,3)", got)
	}
	if tr := g.transitionMap.Get(bot); tr.Start != cell(4, 3) || tr.End != cell(3, 3) {
		t.Errorf("bot transition = %v -> %v, want (4,3) -> (3,3)", tr.Start, tr.End)
	}
}

func TestAutopilotRunKeepsOnePlayer(t *testing.T) {
	g, _, _ := newTestGame(t)
	pilot := NewAutopilot(0.05, 0.2, 7)
	pilot.RestartOnEnd = true

	dt := g.cfg.Physics.DT
	for i := 0; i < 6000; i++ {
		v := g.View()
		g.Step(dt, pilot.Next(dt, &v))

		v = g.View()
		players := countRole(v, components.RolePlayer)
		if v.Mode == systems.ModeInGame && players != 1 {
			t.Fatalf("tick %d: %d players while playing", g.Tick(), players)
		}
		if players > 1 {
			t.Fatalf("tick %d: %d players", g.Tick(), players)
		}
		for _, j := range v.Journeys {
			if j.Role == components.RoleAutomated && len(j.Path) < 2 {
				t.Fatalf("tick %d: bot %d loop has %d cells", g.Tick(), j.ActorID, len(j.Path))
			}
		}
	}
}

// fillWithBots parks a stationary bot on every cell not in keep and returns
// how many it placed.
func fillWithBots(g *Game, keep ...grid.Cell) int {
	n := 0
	for _, c := range g.geom.Cells() {
		if slices.Contains(keep, c) {
			continue
		}
		placeBot(g, c, []grid.Cell{c}, 0, false)
		n++
	}
	return n
}

func TestNoRoomEndsGame(t *testing.T) {
	t.Run("respawn after destruction", func(t *testing.T) {
		g, _, _ := newTestGame(t)
		g.placement.MaxAttempts = 50
		placePlayer(g, cell(0, 3), cell(5, 2), false)
		bots := fillWithBots(g)

		g.Step(g.cfg.Physics.DT, Input{})

		if g.Mode() != systems.ModeEndGame {
			t.Fatalf("Mode = %v, want %v", g.Mode(), systems.ModeEndGame)
		}
		v := g.View()
		if n := countRole(v, components.RolePlayer); n != 0 || g.hasPlayer {
			t.Errorf("players = %d, want 0", n)
		}
		if n := countRole(v, components.RoleAutomated); n != bots {
			t.Errorf("bots = %d, want %d", n, bots)
		}
		if got := g.Score().RemainingAttempts; got != g.cfg.Score.Attempts-1 {
			t.Errorf("RemainingAttempts = %d, want %d", got, g.cfg.Score.Attempts-1)
		}
	})

	t.Run("successor after a finished journey", func(t *testing.T) {
		g, _, _ := newTestGame(t)
		start := cell(0, 3)
		placePlayer(g, start, cell(5, 2), false)

		route := repeat(grid.Right, 5)
		route = append(route, grid.Down)
		route = append(route, repeat(grid.Left, 5)...)
		walk(t, g, route...)

		g.placement.MaxAttempts = 50
		g.ctx.Score.RemainingAttempts = 3
		bots := fillWithBots(g, start, cell(0, 2))

		g.Step(g.cfg.Physics.DT, Move(grid.Up))

		if g.Mode() != systems.ModeEndGame {
			t.Fatalf("Mode = %v, want %v", g.Mode(), systems.ModeEndGame)
		}
		if g.Score() != (systems.Score{Journeys: 1, RemainingAttempts: 3}) {
			t.Errorf("Score = %+v, want 1 journey and attempts not refilled", g.Score())
		}
		v := g.View()
		if n := countRole(v, components.RolePlayer); n != 0 || g.hasPlayer {
			t.Errorf("players = %d, want 0", n)
		}
		if n := countRole(v, components.RoleAutomated); n != bots+1 {
			t.Errorf("bots = %d, want %d including the converted player", n, bots+1)
		}
	})
}

func TestFinishedJourneyRefillsAttempts(t *testing.T) {
	g, _, _ := newTestGame(t)
	placePlayer(g, cell(0, 3), cell(5, 2), false)
	route := repeat(grid.Right, 5)
	route = append(route, grid.Down)
	route = append(route, repeat(grid.Left, 5)...)
	walk(t, g, route...)

	g.ctx.Score.RemainingAttempts = 3
	g.Step(g.cfg.Physics.DT, Move(grid.Up))

	if !g.hasPlayer {
		t.Fatal("no successor placed")
	}
	if got := g.Score().RemainingAttempts; got != g.cfg.Score.Attempts {
		t.Errorf("RemainingAttempts = %d, want refilled %d", got, g.cfg.Score.Attempts)
	}
}

func TestViewOccupiedIncludesTransitionEnd(t *testing.T) {
	g, _, _ := newTestGame(t)
	placePlayer(g, cell(0, 3), cell(5, 2), false)
	bot := placeBot(g, cell(2, 2), []grid.Cell{cell(2, 2), cell(3, 2)}, 0, false)
	botID := g.actorMap.Get(bot).ID

	g.Step(g.cfg.Physics.DT, Move(grid.Right))

	v := g.View()
	for _, a := range v.Actors {
		if a.ID != botID {
			continue
		}
		if !a.Moving || a.Cell != cell(2, 2) || a.Dest != cell(3, 2) {
			t.Fatalf("bot = %v -> %v moving=%v, want (2,2) -> (3,2) in transit", a.Cell, a.Dest, a.Moving)
		}
	}
	for _, c := range []grid.Cell{cell(2, 2), cell(3, 2)} {
		if !v.Occupied(c) {
			t.Errorf("Occupied(%v) = false while a bot moves (2,2) -> (3,2)", c)
		}
	}
	if v.Occupied(cell(4, 2)) {
		t.Error("Occupied((4,2)) = true for a free cell")
	}
}
