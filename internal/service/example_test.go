package service_test

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/service"
	"github.com/InQaaaaGit/waybill_ops.git/internal/storage"
)

// ExampleBulkService_FormatWaybills демонстрирует извлечение накладных из произвольного текста.
func ExampleBulkService_FormatWaybills() {
	logger := zap.NewNop()
	svc := service.NewBulkService(nil, storage.NewMemoryStorage(logger), logger)

	res, err := svc.FormatWaybills("Shipped: [18107785060241](https://track/1), 8962322640353 and 18107785060241")
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Count)
	fmt.Println(res.Formatted)
	// Output:
	// 2
	// [
	//   "18107785060241",
	//   "8962322640353"
	// ]
}

// ExampleBulkService_AddToDispatch демонстрирует проверку ввода до обращения к API.
func ExampleBulkService_AddToDispatch() {
	logger := zap.NewNop()
	svc := service.NewBulkService(nil, storage.NewMemoryStorage(logger), logger)

	_, err := svc.AddToDispatch(context.Background(), 10, `["WB1", "WB1"]`)
	fmt.Println(err)
	// Output:
	// duplicate waybill in array: "WB1" at positions 0 and 1
}
