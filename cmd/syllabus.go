package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vnkhanh/grade-explorer/services"
	"github.com/vnkhanh/grade-explorer/utils"
)

var syllabusOpts struct {
	dir    string
	legend string
	out    string
}

var syllabusCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Manage syllabus PDFs",
}

var syllabusUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload <CODE>*.pdf files to Supabase storage",
	Long: `Uploads every PDF in --dir whose name starts with a subject code and writes
the code -> public URL map, which "build --syllabi" reads.`,
	RunE: runSyllabusUpload,
}

func init() {
	f := syllabusUploadCmd.Flags()
	f.StringVar(&syllabusOpts.dir, "dir", "", "directory with syllabus PDFs")
	f.StringVar(&syllabusOpts.legend, "legend", "", "optional legend PDF used to name the objects")
	f.StringVar(&syllabusOpts.out, "out", "", "write the code -> URL map here (default: stdout)")
	_ = syllabusUploadCmd.MarkFlagRequired("dir")

	syllabusCmd.AddCommand(syllabusUploadCmd)
}

func runSyllabusUpload(cmd *cobra.Command, args []string) error {
	store, err := utils.NewSyllabusStorage(cfg.Supabase.URL, cfg.Supabase.Key, cfg.Supabase.Bucket)
	if err != nil {
		return err
	}

	files, err := services.SyllabusFiles(syllabusOpts.dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no syllabus PDFs found in %s", syllabusOpts.dir)
	}

	legend := services.Legend{}
	if syllabusOpts.legend != "" {
		if legend, err = services.ReadLegendPDF(syllabusOpts.legend); err != nil {
			return err
		}
	}

	codes := make([]string, 0, len(files))
	for code := range files {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	urls := make(map[string]string, len(files))
	for _, code := range codes {
		f, err := os.Open(files[code])
		if err != nil {
			return err
		}
		url, err := store.Upload(code, legend[code], f)
		f.Close()
		if err != nil {
			logger.Error("syllabus upload failed", zap.String("code", code), zap.Error(err))
			continue
		}
		urls[code] = url
		logger.Info("syllabus uploaded", zap.String("code", code), zap.String("url", url))
	}

	if syllabusOpts.out == "" {
		return services.WriteDocument(cmd.OutOrStdout(), urls)
	}
	return writeFile(syllabusOpts.out, func(f *os.File) error {
		return services.WriteDocument(f, urls)
	})
}
