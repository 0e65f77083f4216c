package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Register employees from a YAML file",
	Long: `Register employees listed in a YAML file. Each entry takes the same fields
as the registration endpoint:

  employees:
    - name: Jane Doe
      email: jane@example.com
      department: Engineering
      sex: female
      faceDescriptor: [0.01, -0.12, ...]

Entries that fail validation or clash with an existing email are reported
and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Bool("quiet", false, "Hide the progress bar")
}

type seedFile struct {
	Employees []seedEmployee `yaml:"employees"`
}

type seedEmployee struct {
	Name             string    `yaml:"name"`
	Email            string    `yaml:"email"`
	Department       string    `yaml:"department"`
	FaceDescriptor   []float32 `yaml:"faceDescriptor"`
	DOB              *string   `yaml:"dob"`
	StartWorkingDate *string   `yaml:"startWorkingDate"`
	Sex              *string   `yaml:"sex"`
}

func (e seedEmployee) request() employee.RegisterEmployeeRequest {
	return employee.RegisterEmployeeRequest{
		Name:             e.Name,
		Email:            e.Email,
		Department:       e.Department,
		FaceDescriptor:   face.Embedding(e.FaceDescriptor),
		DOB:              e.DOB,
		StartWorkingDate: e.StartWorkingDate,
		Sex:              e.Sex,
	}
}

func loadSeedFile(path string) (seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return seedFile{}, fmt.Errorf("reading seed file: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return seedFile{}, fmt.Errorf("parsing seed file: %w", err)
	}
	return file, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	quiet := mustGetBool(cmd, "quiet")

	file, err := loadSeedFile(args[0])
	if err != nil {
		return err
	}
	if len(file.Employees) == 0 {
		fmt.Println("No employees to register")
		return nil
	}

	ctx := context.Background()
	// the roster is refreshed once at the end instead of after every insert
	app, err := newApplication(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions(len(file.Employees),
			progressbar.OptionSetDescription("Registering employees"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("employees"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
	}

	var (
		registered int
		errs       []error
	)
	for i, entry := range file.Employees {
		if _, err := app.employeeService.RegisterEmployee(ctx, entry.request()); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i+1, entry.Email, err))
		} else {
			registered++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	roster, err := app.roster.Refresh(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nRegistered %d of %d employees (roster now holds %d faces)\n", registered, len(file.Employees), roster.Size())
	if len(errs) > 0 {
		fmt.Printf("\nErrors: %d\n", len(errs))
		for _, e := range errs {
			fmt.Printf("  - %v\n", e)
		}
		return fmt.Errorf("%d entries failed", len(errs))
	}
	return nil
}
