// nbtrain 按名称加载数据集、训练朴素贝叶斯分类器，并可对单个样本预测或在训练集上评估。
//
//	nbtrain -config configs/config.toml -dataset iris -target class -sample "sepal_length=5.1,petal_width=0.2,..."
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/wyfcoding/naivebayes/bootstrap"
	"github.com/wyfcoding/naivebayes/config"
	"github.com/wyfcoding/naivebayes/dataset"
	"github.com/wyfcoding/naivebayes/trainer"
)

var version = "dev"

// setupTracing 初始化追踪并返回关闭函数。
var setupTracing = func(boot *bootstrap.Bootstrapper, cfg config.TracingConfig) func() {
	return boot.SetupTracing(cfg)
}

func main() {
	os.Exit(realMain())
}

// realMain 返回进程退出码，使所有 defer 在 os.Exit 之前执行完毕。
func realMain() int {
	name := flag.String("dataset", "", "dataset name, resolved to <name>.csv by the configured source")
	target := flag.String("target", "", "target attribute name or index (default: last attribute)")
	exclude := flag.String("exclude", "", "comma separated attributes to drop from inputs")
	sample := flag.String("sample", "", "comma separated name=value pairs to classify")
	eval := flag.Bool("eval", false, "report accuracy on the training dataset")

	cfg := &config.Config{}
	boot := bootstrap.New("naivebayes", version)
	if err := boot.Initialize(cfg); err != nil {
		return 1
	}
	if *name == "" {
		flag.Usage()
		return 2
	}

	// 退出前刷新未导出的 span，失败路径同样如此。
	defer setupTracing(boot, cfg.Tracing)()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, boot, cfg, *name, *target, *exclude, *sample, *eval); err != nil {
		boot.Logger.Error("nbtrain failed", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, boot *bootstrap.Bootstrapper, cfg *config.Config, name, target, exclude, sample string, eval bool) error {
	tr, err := trainer.New(cfg, trainer.WithLogger(boot.Logger.Named("trainer")))
	if err != nil {
		return err
	}
	defer tr.Close()
	defer boot.SetupMetrics(cfg.Metrics, tr.Metrics())()

	var opts []dataset.Option
	if target != "" {
		opts = append(opts, dataset.WithTarget(parseRef(target)))
	}
	if exclude != "" {
		var refs []dataset.AttrRef
		for _, f := range strings.Split(exclude, ",") {
			refs = append(refs, parseRef(strings.TrimSpace(f)))
		}
		opts = append(opts, dataset.WithExclude(refs...))
	}

	model, ds, err := tr.Train(ctx, name, opts...)
	if err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Println(cyan(ds))

	if eval {
		acc, err := tr.Evaluate(ctx, model, name, opts...)
		if err != nil {
			return err
		}
		fmt.Printf("accuracy: %s\n", green(fmt.Sprintf("%.4f", acc)))
	}

	if sample != "" {
		values := make(map[string]dataset.Value)
		for _, pair := range strings.Split(sample, ",") {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("bad sample field %q, want name=value", pair)
			}
			values[strings.TrimSpace(k)] = dataset.NumOrStr(v)
		}
		class, err := model.PredictNamed(values)
		if err != nil {
			return err
		}
		fmt.Printf("prediction: %s\n", green(class))
	}
	return nil
}

// parseRef 把整数解析为下标引用，其余按属性名处理。
func parseRef(s string) dataset.AttrRef {
	if v, ok := dataset.NumOrStr(s).(int); ok {
		return dataset.Index(v)
	}
	return dataset.Name(s)
}
