package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mp3inspect/cache"
	"mp3inspect/logger"
	"mp3inspect/models"
	"mp3inspect/mp3parser"
)

type inspectOptions struct {
	frames   int
	hexBytes int
	sideInfo bool
	asJSON   bool
}

var inspectOpts inspectOptions

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the tag and audio frames of an MP3 file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		if cfg.Logging.Output == "stdout" {
			log.SetOutput(cmd.ErrOrStderr())
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		parser := mp3parser.NewParser(mp3parser.WithLogger(
			logger.WithComponent(log, "inspect").WithField("file", args[0])))
		file, err := parser.ParseFile(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		if inspectOpts.asJSON {
			resp := models.NewInspectResponse(file, inspectOpts.frames)
			resp.SHA256 = cache.Key(data)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		return printReport(cmd.OutOrStdout(), file, data, inspectOpts)
	},
}

func init() {
	inspectCmd.Flags().IntVarP(&inspectOpts.frames, "frames", "n", 10, "number of audio frames to list")
	inspectCmd.Flags().IntVar(&inspectOpts.hexBytes, "hex", 32, "bytes of the first audio frame to dump (0 to skip)")
	inspectCmd.Flags().BoolVar(&inspectOpts.sideInfo, "side-info", false, "decode Layer III side information of listed frames")
	inspectCmd.Flags().BoolVar(&inspectOpts.asJSON, "json", false, "print the inspection result as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func printReport(w io.Writer, file *mp3parser.File, data []byte, opts inspectOptions) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if tag := file.Tag; tag != nil {
		fmt.Fprintf(tw, "ID3v2.%d.%d tag\t%d bytes (%d metadata, %d padding)\n",
			tag.Version, tag.Revision, tag.Size, tag.MetadataSize, tag.PaddingSize)
		for _, f := range tag.Frames {
			info := models.NewMetadataFrameInfo(f)
			fmt.Fprintf(tw, "  %s\t%s\t%d bytes\tflags %04x\t%s\n", info.ID, info.Name, info.Size, info.Flags, info.Text)
		}
	} else {
		fmt.Fprintln(tw, "no ID3v2 tag")
	}

	if v1 := file.ID3v1; v1 != nil {
		fmt.Fprintf(tw, "ID3v1 trailer\t%q by %q on %q (%s)\n", v1.Title, v1.Artist, v1.Album, v1.Year)
	}

	s := file.Summary
	fmt.Fprintf(tw, "audio\t%d frames from offset %d, %d bytes\n", s.FrameCount, file.AudioOffset, s.AudioBytes)
	if s.FrameCount > 0 {
		mode := "CBR"
		if s.VBR {
			mode = "VBR"
		}
		fmt.Fprintf(tw, "stream\t%s %s, %d Hz, %s, %s %d bps, %s\n",
			s.Version, s.Layer, s.SampleRate, s.ChannelMode, mode, s.AverageBitrate, s.Duration)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	n := min(opts.frames, len(file.Frames))
	for _, f := range file.Frames[:n] {
		fmt.Fprintln(w, f.String())
		if opts.sideInfo && f.Header.Layer == mp3parser.Layer3 {
			si, err := f.SideInfo()
			if err != nil {
				fmt.Fprintf(w, "  side info: %v\n", err)
				continue
			}
			fmt.Fprintf(w, "  main_data_begin %d, main data %d bytes\n", si.MainDataBegin, si.MainDataBytes())
			for gr, channels := range si.Granules {
				for ch, gc := range channels {
					fmt.Fprintf(w, "  gr %d ch %d: part2_3_length %d, big_values %d, global_gain %d, block_type %d\n",
						gr, ch, gc.Part23Length, gc.BigValues, gc.GlobalGain, gc.BlockType)
				}
			}
		}
	}
	if n < len(file.Frames) {
		fmt.Fprintf(w, "... %d more frames\n", len(file.Frames)-n)
	}

	if opts.hexBytes > 0 && len(file.Frames) > 0 {
		first := file.Frames[0]
		end := min(first.Offset+opts.hexBytes, len(data))
		fmt.Fprintf(w, "first frame bytes:\n%s", hex.Dump(data[first.Offset:end]))
	}
	return nil
}
