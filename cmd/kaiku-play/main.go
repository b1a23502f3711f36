package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maarit-k/kaiku"
	"github.com/maarit-k/kaiku/audio"
	"github.com/maarit-k/kaiku/smf"
	"github.com/maarit-k/kaiku/synth"
	"github.com/maarit-k/kaiku/version"
)

// Item is one musical object in a performance file.
type Item struct {
	Kind       string  `yaml:"kind" json:"kind"` // note, chord, scale, arpeggio, progression
	Notes      []int   `yaml:"notes,omitempty,flow" json:"notes,omitempty"`
	Chords     [][]int `yaml:"chords,omitempty,flow" json:"chords,omitempty"`
	Duration   float64 `yaml:"duration,omitempty" json:"duration,omitempty"`
	Descending bool    `yaml:"descending,omitempty" json:"descending,omitempty"`
}

type Performance struct {
	Waveform string `yaml:"waveform,omitempty" json:"waveform,omitempty"`
	Tempo    uint32 `yaml:"tempo,omitempty" json:"tempo,omitempty"`
	Items    []Item `yaml:"items" json:"items"`
}

// itemGap is the pause between performance items in the rendered audio.
const itemGap = 0.05

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the same directory where the original performance file is.")
	play := flag.Bool("p", false, "Play the input performances (default behaviour when no other output is defined).")
	midOut := flag.Bool("m", false, "Output the performance as a .mid file.")
	wavOut := flag.Bool("w", false, "Output the rendered performance as a .wav file. By default, saves a float32 buffer to disk.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting .wav.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*midOut && !*wavOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play the file
	}
	var player *audio.Player
	if *play {
		player = audio.NewDefaultPlayer()
	}
	process := func(filename string) error {
		output := func(extension string, contents []byte) error {
			if *stdout {
				os.Stdout.Write(contents)
				return nil
			}
			_, name := filepath.Split(filename)
			dir := *directory
			if dir == "" {
				dir = filepath.Dir(filename)
			}
			name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("could not create output directory %v: %v", dir, err)
			}
			f := filepath.Join(dir, name)
			if err := os.WriteFile(f, contents, 0644); err != nil {
				return fmt.Errorf("could not write file %v: %v", f, err)
			}
			return nil
		}
		inputBytes, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filename, err)
		}
		var perf Performance
		if errJSON := json.Unmarshal(inputBytes, &perf); errJSON != nil {
			if errYaml := yaml.Unmarshal(inputBytes, &perf); errYaml != nil {
				return fmt.Errorf("the performance could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
			}
		}
		waveform := synth.Sine
		if perf.Waveform != "" {
			waveform, err = synth.ParseWaveform(perf.Waveform)
			if err != nil {
				return err
			}
		}
		if perf.Tempo == 0 {
			perf.Tempo = smf.DefaultTempo
		}
		if *play || *wavOut {
			buffer, err := renderAudio(perf, waveform)
			if err != nil {
				return fmt.Errorf("could not render %v: %v", filename, err)
			}
			if *play {
				player.Play(buffer, true)
			}
			if *wavOut {
				wav, err := buffer.Wav(*pcm)
				if err != nil {
					return fmt.Errorf("could not generate .wav file: %v", err)
				}
				if err := output(".wav", wav); err != nil {
					return fmt.Errorf("error outputting .wav file: %v", err)
				}
			}
		}
		if *midOut {
			file, err := renderMIDI(perf)
			if err != nil {
				return fmt.Errorf("could not render MIDI for %v: %v", filename, err)
			}
			if err := output(".mid", file.Bytes()); err != nil {
				return fmt.Errorf("error outputting .mid file: %v", err)
			}
		}
		if *play {
			player.Wait()
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			jsonfiles, err := filepath.Glob(filepath.Join(param, "*.json"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for json files: %v\n", param, err)
				retval = 1
				continue
			}
			ymlfiles, err := filepath.Glob(filepath.Join(param, "*.yml"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for yml files: %v\n", param, err)
				retval = 1
				continue
			}
			files := append(ymlfiles, jsonfiles...)
			for _, file := range files {
				if err := process(file); err != nil {
					fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
					retval = 1
				}
			}
		} else {
			if err := process(param); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

// defaultDuration is per item kind, in seconds for audio and beats for MIDI.
func defaultDuration(kind string) float64 {
	switch kind {
	case "chord", "progression":
		return 2
	case "scale":
		return 0.5
	case "arpeggio":
		return 0.3
	default:
		return 1
	}
}

func itemNotes(item Item) (kaiku.Sequence, error) {
	notes, err := kaiku.SequenceFromMIDI(item.Notes...)
	if err != nil {
		return nil, err
	}
	if item.Descending {
		notes = notes.Reversed()
	}
	return notes, nil
}

func itemChords(item Item) (kaiku.Progression, error) {
	prog := make(kaiku.Progression, 0, len(item.Chords))
	for _, pitches := range item.Chords {
		c, err := kaiku.ChordFromMIDI(pitches...)
		if err != nil {
			return nil, err
		}
		prog = append(prog, c)
	}
	return prog, nil
}

func renderAudio(perf Performance, waveform synth.Waveform) (kaiku.AudioBuffer, error) {
	s := synth.NewSynth(kaiku.DefaultSampleRate)
	out := kaiku.AudioBuffer{SampleRate: s.SampleRate}
	for _, item := range perf.Items {
		duration := item.Duration
		if duration == 0 {
			duration = defaultDuration(item.Kind)
		}
		var buf kaiku.AudioBuffer
		var err error
		switch item.Kind {
		case "note":
			notes, nerr := itemNotes(item)
			if nerr != nil {
				return kaiku.AudioBuffer{}, nerr
			}
			if len(notes) != 1 {
				return kaiku.AudioBuffer{}, fmt.Errorf("a note item needs exactly one note, got %v", len(notes))
			}
			buf, err = s.Note(notes[0], duration, waveform, 0.5)
		case "chord":
			notes, nerr := itemNotes(item)
			if nerr != nil {
				return kaiku.AudioBuffer{}, nerr
			}
			buf, err = s.Chord(kaiku.Chord(notes), duration, waveform, 0.3)
		case "scale":
			notes, nerr := itemNotes(item)
			if nerr != nil {
				return kaiku.AudioBuffer{}, nerr
			}
			buf, err = s.Scale(notes, duration, waveform, 0.5)
		case "arpeggio":
			notes, nerr := itemNotes(item)
			if nerr != nil {
				return kaiku.AudioBuffer{}, nerr
			}
			buf, err = s.Arpeggio(notes, duration, waveform, 0.5)
		case "progression":
			prog, perr := itemChords(item)
			if perr != nil {
				return kaiku.AudioBuffer{}, perr
			}
			buf, err = s.Progression(prog, duration, waveform, 0.3)
		default:
			return kaiku.AudioBuffer{}, fmt.Errorf("unknown item kind %q", item.Kind)
		}
		if err != nil {
			return kaiku.AudioBuffer{}, err
		}
		if len(out.Samples) > 0 {
			out = out.AppendSilence(itemGap)
		}
		out.Samples = append(out.Samples, buf.Samples...)
	}
	return out, nil
}

func renderMIDI(perf Performance) (*smf.File, error) {
	f := smf.NewFile()
	t := f.NewTrack()
	t.AddTempo(0, perf.Tempo)
	t.AddTimeSignature(0, 4, 2)
	cursor := 0.0
	for _, item := range perf.Items {
		duration := item.Duration
		if duration == 0 {
			duration = defaultDuration(item.Kind)
		}
		switch item.Kind {
		case "note", "scale", "arpeggio":
			notes, err := itemNotes(item)
			if err != nil {
				return nil, err
			}
			for _, n := range notes {
				if err := t.AddNote(uint8(n.MIDI()), smf.DefaultVelocity, cursor, duration, 0, f.TicksPerBeat); err != nil {
					return nil, err
				}
				cursor += duration
			}
		case "chord":
			notes, err := itemNotes(item)
			if err != nil {
				return nil, err
			}
			pitches := make([]uint8, len(notes))
			for i, n := range notes {
				pitches[i] = uint8(n.MIDI())
			}
			if err := t.AddChord(pitches, smf.DefaultVelocity, cursor, duration, 0, f.TicksPerBeat); err != nil {
				return nil, err
			}
			cursor += duration
		case "progression":
			prog, err := itemChords(item)
			if err != nil {
				return nil, err
			}
			for _, c := range prog {
				pitches := make([]uint8, len(c))
				for i, n := range c {
					pitches[i] = uint8(n.MIDI())
				}
				if err := t.AddChord(pitches, smf.DefaultVelocity, cursor, duration, 0, f.TicksPerBeat); err != nil {
					return nil, err
				}
				cursor += duration
			}
		default:
			return nil, fmt.Errorf("unknown item kind %q", item.Kind)
		}
	}
	return f, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Kaiku command line utility for playing .yml/.json performance files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
