// Command goban plays a local game in the terminal. Moves are typed as "x y".
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"goban/internal/controller"
	"goban/internal/domain/board"
)

var (
	blackStone = color.New(color.FgHiWhite, color.BgBlack, color.Bold)
	whiteStone = color.New(color.FgBlack, color.BgHiWhite, color.Bold)
	lastStone  = color.New(color.FgRed, color.Bold)
	emptyCell  = color.New(color.FgYellow)
	axis       = color.New(color.FgCyan)
	warn       = color.New(color.FgRed)
)

func main() {
	mode := flag.String("mode", string(controller.ModeTwoPlayer), "game mode: two_player, one_player or online")
	size := flag.String("size", "9x9", "board size: 9x9, 13x13 or 19x19")
	handicap := flag.Int("handicap", 0, "handicap stones for black")
	verbose := flag.Bool("v", false, "log every move")
	flag.Parse()

	log := zap.NewNop().Sugar()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
		log = l.Sugar()
	}

	m, err := controller.ParseMode(*mode)
	if err != nil {
		warn.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	options := map[string]string{controller.OptionBoardSize: *size}
	if *handicap > 0 {
		options[controller.OptionHandicap] = strconv.Itoa(*handicap)
	}
	ctrl, err := controller.New(m, options)
	if err != nil {
		warn.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("game %s, %s, %dx%d\n", petname.Generate(2, "-"), m, ctrl.Settings().BoardSize, ctrl.Settings().BoardSize)
	play(ctrl, os.Stdin, os.Stdout, log)
}

func play(ctrl *controller.Controller, in io.Reader, out io.Writer, log *zap.SugaredLogger) {
	scanner := bufio.NewScanner(in)
	render(out, ctrl.Snapshot())
	for {
		fmt.Fprintf(out, "%s to move> ", ctrl.CurrentPlayer())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "q", "quit", "exit":
			return
		}

		pt, err := parsePoint(line)
		if err != nil {
			warn.Fprintln(out, err)
			continue
		}
		res, err := ctrl.TryPlay(pt)
		if err != nil {
			warn.Fprintf(out, "%s: %v\n", pt, err)
			continue
		}
		log.Infof("%s played %s, captured %d", res.Player, res.Point, len(res.Captured))
		render(out, ctrl.Snapshot())
		if len(res.Captured) > 0 {
			fmt.Fprintf(out, "%s captured %d\n", res.Player, len(res.Captured))
		}
	}
}

func parsePoint(line string) (board.Point, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 2 {
		return board.Point{}, fmt.Errorf("want \"x y\", got %q", line)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return board.Point{}, fmt.Errorf("bad x %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return board.Point{}, fmt.Errorf("bad y %q", fields[1])
	}
	return board.Pt(x, y), nil
}

func render(out io.Writer, snap board.Snapshot) {
	fmt.Fprint(out, "   ")
	for x := 0; x < snap.Size; x++ {
		axis.Fprintf(out, "%-2d", x)
	}
	fmt.Fprintln(out)
	for y, row := range snap.Rows {
		axis.Fprintf(out, "%2d ", y)
		for x := range row {
			pt := board.Pt(x, y)
			c := emptyCell
			switch {
			case snap.LastMove != nil && *snap.LastMove == pt:
				c = lastStone
			case row[x] == 'B':
				c = blackStone
			case row[x] == 'W':
				c = whiteStone
			}
			c.Fprintf(out, "%c", row[x])
			fmt.Fprint(out, " ")
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "captures black %d white %d, komi %.1f\n", snap.CapturesByBlack, snap.CapturesByWhite, snap.Komi)
	if snap.KoPoint != nil {
		fmt.Fprintf(out, "ko at %s\n", *snap.KoPoint)
	}
}
